package ledger

import (
	"context"

	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/ledger"
)

// TransactionScope provides transactional access to the repositories the
// ledger consumer touches. The balance update, the debt transaction row, and
// the processed-order marker always commit together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction
type TransactionalRepositories interface {
	// AccountRepo returns the customer account repository scoped to the current transaction
	AccountRepo() ledger.CustomerAccountRepository
	// DebtRepo returns the debt transaction repository scoped to the current transaction
	DebtRepo() ledger.DebtTransactionRepository
	// MarkerRepo returns the processed-order marker repository scoped to the current transaction
	MarkerRepo() fulfillment.ProcessedOrderRepository
}
