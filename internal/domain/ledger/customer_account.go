package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerAccount tracks how much a customer owes the shop. The aggregate ID
// is the customer ID referenced by orders. The running DebtBalance must at
// all times equal the sum of the account's debt transactions; every balance
// change therefore goes through a method that also produces the transaction.
type CustomerAccount struct {
	shared.ShopAggregateRoot
	Name        string
	Phone       string
	DebtBalance decimal.Decimal // Outstanding debt, never negative
	IsActive    bool
}

// NewCustomerAccount creates a new customer account with zero debt
func NewCustomerAccount(shopID uuid.UUID, name, phone string) (*CustomerAccount, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}

	return &CustomerAccount{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Name:              name,
		Phone:             phone,
		DebtBalance:       decimal.Zero,
		IsActive:          true,
	}, nil
}

// IncreaseDebt raises the customer's debt by amount and returns the
// immutable transaction recording the change
func (a *CustomerAccount) IncreaseDebt(amount decimal.Decimal, orderID uuid.UUID, reference, description string) (*DebtTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Debt amount must be positive")
	}

	balanceBefore := a.DebtBalance
	balanceAfter := balanceBefore.Add(amount)

	tx, err := NewDebtTransaction(a.ShopID, a.ID, DebtTransactionTypeDebt, amount, balanceBefore, balanceAfter)
	if err != nil {
		return nil, err
	}
	tx.WithOrderID(orderID).WithReference(reference).WithDescription(description)

	a.DebtBalance = balanceAfter
	a.UpdatedAt = time.Now()

	return tx, nil
}

// RecordPayment lowers the customer's debt by amount and returns the
// immutable transaction recording the change
func (a *CustomerAccount) RecordPayment(amount decimal.Decimal, reference, description string) (*DebtTransaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if a.DebtBalance.LessThan(amount) {
		return nil, shared.NewDomainError("PAYMENT_EXCEEDS_DEBT", "Payment exceeds outstanding debt")
	}

	balanceBefore := a.DebtBalance
	balanceAfter := balanceBefore.Sub(amount)

	tx, err := NewDebtTransaction(a.ShopID, a.ID, DebtTransactionTypePayment, amount, balanceBefore, balanceAfter)
	if err != nil {
		return nil, err
	}
	tx.WithReference(reference).WithDescription(description)

	a.DebtBalance = balanceAfter
	a.UpdatedAt = time.Now()

	return tx, nil
}

// HasDebt reports whether the customer currently owes anything
func (a *CustomerAccount) HasDebt() bool {
	return a.DebtBalance.IsPositive()
}

// Deactivate hides the account
func (a *CustomerAccount) Deactivate() {
	a.IsActive = false
	a.UpdatedAt = time.Now()
}
