package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDebtTransactionRepository implements ledger.DebtTransactionRepository using GORM
type GormDebtTransactionRepository struct {
	db *gorm.DB
}

// NewGormDebtTransactionRepository creates a new GormDebtTransactionRepository
func NewGormDebtTransactionRepository(db *gorm.DB) *GormDebtTransactionRepository {
	return &GormDebtTransactionRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormDebtTransactionRepository) WithTx(tx *gorm.DB) *GormDebtTransactionRepository {
	return &GormDebtTransactionRepository{db: tx}
}

// Save persists one or more debt transactions. Transactions are immutable,
// so this is insert-only.
func (r *GormDebtTransactionRepository) Save(ctx context.Context, transactions ...*ledger.DebtTransaction) error {
	if len(transactions) == 0 {
		return nil
	}

	transactionModels := make([]models.DebtTransactionModel, len(transactions))
	for i, transaction := range transactions {
		transactionModels[i] = *models.DebtTransactionModelFromDomain(transaction)
	}
	return r.db.WithContext(ctx).Create(&transactionModels).Error
}

// FindByCustomer lists transactions for a customer, newest first
func (r *GormDebtTransactionRepository) FindByCustomer(ctx context.Context, shopID, customerID uuid.UUID, filter shared.Filter) ([]ledger.DebtTransaction, int64, error) {
	var transactionModels []models.DebtTransactionModel

	base := r.db.WithContext(ctx).Model(&models.DebtTransactionModel{}).
		Where("shop_id = ? AND customer_id = ?", shopID, customerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	if err := query.Order("transaction_date DESC").Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]ledger.DebtTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = *model.ToDomain()
	}
	return transactions, total, nil
}

// SumByCustomer returns the signed sum of all transactions for a customer.
// DEBT entries count positive, PAYMENT entries negative, ADJUSTMENT entries
// by their balance delta. The result must equal the account's DebtBalance.
func (r *GormDebtTransactionRepository) SumByCustomer(ctx context.Context, shopID, customerID uuid.UUID) (decimal.Decimal, error) {
	var transactionModels []models.DebtTransactionModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND customer_id = ?", shopID, customerID).
		Find(&transactionModels).Error; err != nil {
		return decimal.Zero, err
	}

	// Summed in Go rather than SQL so the signing rules live in one place,
	// the domain's GetSignedAmount.
	sum := decimal.Zero
	for i := range transactionModels {
		sum = sum.Add(transactionModels[i].ToDomain().GetSignedAmount())
	}
	return sum, nil
}

var _ ledger.DebtTransactionRepository = (*GormDebtTransactionRepository)(nil)
