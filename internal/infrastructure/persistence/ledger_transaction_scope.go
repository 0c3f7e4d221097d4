package persistence

import (
	"context"

	appledger "github.com/retailpos/backend/internal/application/ledger"
	"github.com/retailpos/backend/internal/domain/fulfillment"
	"github.com/retailpos/backend/internal/domain/ledger"
	"gorm.io/gorm"
)

// GormLedgerTransactionScope implements the ledger consumer's
// TransactionScope using GORM transactions. The balance update, the debt
// transaction row, and the processed-order marker commit or roll back
// together.
type GormLedgerTransactionScope struct {
	db *gorm.DB
}

// NewGormLedgerTransactionScope creates a new GormLedgerTransactionScope.
func NewGormLedgerTransactionScope(db *gorm.DB) *GormLedgerTransactionScope {
	return &GormLedgerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormLedgerTransactionScope) Execute(ctx context.Context, fn func(repos appledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormLedgerRepositories{tx: tx}
		return fn(repos)
	})
}

// gormLedgerRepositories provides access to the ledger consumer's
// repositories within a transaction.
type gormLedgerRepositories struct {
	tx *gorm.DB
}

// AccountRepo returns the customer account repository scoped to the current transaction.
func (r *gormLedgerRepositories) AccountRepo() ledger.CustomerAccountRepository {
	return NewGormCustomerAccountRepository(r.tx)
}

// DebtRepo returns the debt transaction repository scoped to the current transaction.
func (r *gormLedgerRepositories) DebtRepo() ledger.DebtTransactionRepository {
	return NewGormDebtTransactionRepository(r.tx)
}

// MarkerRepo returns the processed-order marker repository scoped to the current transaction.
func (r *gormLedgerRepositories) MarkerRepo() fulfillment.ProcessedOrderRepository {
	return NewGormProcessedOrderRepository(r.tx)
}

// Ensure GormLedgerTransactionScope implements TransactionScope
var _ appledger.TransactionScope = (*GormLedgerTransactionScope)(nil)

// Ensure gormLedgerRepositories implements TransactionalRepositories
var _ appledger.TransactionalRepositories = (*gormLedgerRepositories)(nil)
