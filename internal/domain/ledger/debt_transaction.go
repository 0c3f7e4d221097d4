package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DebtTransactionType represents the type of debt transaction
type DebtTransactionType string

const (
	// DebtTransactionTypeDebt represents an unpaid order increasing what the customer owes
	DebtTransactionTypeDebt DebtTransactionType = "DEBT"
	// DebtTransactionTypePayment represents the customer settling part of their debt
	DebtTransactionTypePayment DebtTransactionType = "PAYMENT"
	// DebtTransactionTypeAdjustment represents a manual correction
	DebtTransactionTypeAdjustment DebtTransactionType = "ADJUSTMENT"
)

// String returns the string representation of DebtTransactionType
func (t DebtTransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t DebtTransactionType) IsValid() bool {
	switch t {
	case DebtTransactionTypeDebt, DebtTransactionTypePayment, DebtTransactionTypeAdjustment:
		return true
	}
	return false
}

// IsIncrease returns true if this transaction type raises the debt balance
func (t DebtTransactionType) IsIncrease() bool {
	return t == DebtTransactionTypeDebt
}

// DebtTransaction is an immutable record of a debt balance change.
// Once created, transactions are never modified - corrections are made
// with new transactions.
type DebtTransaction struct {
	shared.BaseEntity
	ShopID          uuid.UUID
	CustomerID      uuid.UUID
	TransactionType DebtTransactionType
	Amount          decimal.Decimal // Always positive, direction determined by type
	BalanceBefore   decimal.Decimal // Debt balance before the transaction
	BalanceAfter    decimal.Decimal // Debt balance after the transaction
	OrderID         *uuid.UUID      // Order that caused the debt (optional)
	Reference       string          // Reference number/code
	Description     string
	TransactionDate time.Time
}

// NewDebtTransaction creates a new debt transaction
func NewDebtTransaction(
	shopID uuid.UUID,
	customerID uuid.UUID,
	txType DebtTransactionType,
	amount decimal.Decimal,
	balanceBefore decimal.Decimal,
	balanceAfter decimal.Decimal,
) (*DebtTransaction, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "Shop ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid debt transaction type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if balanceBefore.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance before cannot be negative")
	}
	if balanceAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance after cannot be negative")
	}

	return &DebtTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		ShopID:          shopID,
		CustomerID:      customerID,
		TransactionType: txType,
		Amount:          amount,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		TransactionDate: time.Now(),
	}, nil
}

// WithOrderID sets the order that caused the transaction
func (t *DebtTransaction) WithOrderID(orderID uuid.UUID) *DebtTransaction {
	t.OrderID = &orderID
	return t
}

// WithReference sets the reference number for the transaction
func (t *DebtTransaction) WithReference(reference string) *DebtTransaction {
	t.Reference = reference
	return t
}

// WithDescription sets the description for the transaction
func (t *DebtTransaction) WithDescription(description string) *DebtTransaction {
	t.Description = description
	return t
}

// GetSignedAmount returns the amount with sign based on transaction type.
// Positive for debt increases, negative for payments.
func (t *DebtTransaction) GetSignedAmount() decimal.Decimal {
	if t.TransactionType == DebtTransactionTypeAdjustment {
		return t.BalanceAfter.Sub(t.BalanceBefore)
	}
	if t.TransactionType.IsIncrease() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// BalanceChange returns the net balance change
func (t *DebtTransaction) BalanceChange() decimal.Decimal {
	return t.BalanceAfter.Sub(t.BalanceBefore)
}
