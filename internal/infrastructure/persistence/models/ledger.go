package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// CustomerAccountModel is the persistence model for the CustomerAccount aggregate root.
type CustomerAccountModel struct {
	ShopAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Phone       string          `gorm:"type:varchar(20)"`
	DebtBalance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerAccountModel) TableName() string {
	return "customer_accounts"
}

// ToDomain converts the persistence model to a domain CustomerAccount aggregate.
func (m *CustomerAccountModel) ToDomain() *ledger.CustomerAccount {
	account := &ledger.CustomerAccount{
		Name:        m.Name,
		Phone:       m.Phone,
		DebtBalance: m.DebtBalance,
		IsActive:    m.IsActive,
	}
	m.PopulateShopAggregateRoot(&account.ShopAggregateRoot)
	return account
}

// FromDomain populates the persistence model from a domain CustomerAccount aggregate.
func (m *CustomerAccountModel) FromDomain(a *ledger.CustomerAccount) {
	m.FromDomainShopAggregateRoot(a.ShopAggregateRoot)
	m.Name = a.Name
	m.Phone = a.Phone
	m.DebtBalance = a.DebtBalance
	m.IsActive = a.IsActive
}

// CustomerAccountModelFromDomain creates a new persistence model from a domain CustomerAccount aggregate.
func CustomerAccountModelFromDomain(a *ledger.CustomerAccount) *CustomerAccountModel {
	m := &CustomerAccountModel{}
	m.FromDomain(a)
	return m
}

// DebtTransactionModel is the persistence model for the DebtTransaction record.
type DebtTransactionModel struct {
	BaseModel
	ShopID          uuid.UUID                  `gorm:"type:uuid;not null;index:idx_debt_transactions_customer,priority:1"`
	CustomerID      uuid.UUID                  `gorm:"type:uuid;not null;index:idx_debt_transactions_customer,priority:2"`
	TransactionType ledger.DebtTransactionType `gorm:"type:varchar(20);not null"`
	Amount          decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal            `gorm:"type:decimal(18,4);not null"`
	OrderID         *uuid.UUID                 `gorm:"type:uuid;index"`
	Reference       string                     `gorm:"type:varchar(100)"`
	Description     string                     `gorm:"type:varchar(500)"`
	TransactionDate time.Time                  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (DebtTransactionModel) TableName() string {
	return "debt_transactions"
}

// ToDomain converts the persistence model to a domain DebtTransaction record.
func (m *DebtTransactionModel) ToDomain() *ledger.DebtTransaction {
	return &ledger.DebtTransaction{
		BaseEntity:      m.BaseModel.ToDomain(),
		ShopID:          m.ShopID,
		CustomerID:      m.CustomerID,
		TransactionType: m.TransactionType,
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		OrderID:         m.OrderID,
		Reference:       m.Reference,
		Description:     m.Description,
		TransactionDate: m.TransactionDate,
	}
}

// FromDomain populates the persistence model from a domain DebtTransaction record.
func (m *DebtTransactionModel) FromDomain(t *ledger.DebtTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.ShopID = t.ShopID
	m.CustomerID = t.CustomerID
	m.TransactionType = t.TransactionType
	m.Amount = t.Amount
	m.BalanceBefore = t.BalanceBefore
	m.BalanceAfter = t.BalanceAfter
	m.OrderID = t.OrderID
	m.Reference = t.Reference
	m.Description = t.Description
	m.TransactionDate = t.TransactionDate
}

// DebtTransactionModelFromDomain creates a new persistence model from a domain DebtTransaction record.
func DebtTransactionModelFromDomain(t *ledger.DebtTransaction) *DebtTransactionModel {
	m := &DebtTransactionModel{}
	m.FromDomain(t)
	return m
}
