package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerAccountRepository defines the persistence interface for customer accounts
type CustomerAccountRepository interface {
	// Save persists an account
	Save(ctx context.Context, account *CustomerAccount) error
	// FindByID retrieves an account by customer ID scoped to a shop.
	// Returns ErrNotFound for unknown customers.
	FindByID(ctx context.Context, shopID, customerID uuid.UUID) (*CustomerAccount, error)
	// FindAll retrieves accounts for a shop with pagination
	FindAll(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]CustomerAccount, int64, error)
}

// DebtTransactionRepository defines the persistence interface for debt transactions
type DebtTransactionRepository interface {
	// Save persists one or more debt transactions
	Save(ctx context.Context, transactions ...*DebtTransaction) error
	// FindByCustomer lists transactions for a customer, newest first
	FindByCustomer(ctx context.Context, shopID, customerID uuid.UUID, filter shared.Filter) ([]DebtTransaction, int64, error)
	// SumByCustomer returns the signed sum of all transactions for a customer.
	// The result must always equal the account's DebtBalance.
	SumByCustomer(ctx context.Context, shopID, customerID uuid.UUID) (decimal.Decimal, error)
}
