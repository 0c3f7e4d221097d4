package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/domain/ledger"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerAccountRepository implements ledger.CustomerAccountRepository using GORM
type GormCustomerAccountRepository struct {
	db *gorm.DB
}

// NewGormCustomerAccountRepository creates a new GormCustomerAccountRepository
func NewGormCustomerAccountRepository(db *gorm.DB) *GormCustomerAccountRepository {
	return &GormCustomerAccountRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormCustomerAccountRepository) WithTx(tx *gorm.DB) *GormCustomerAccountRepository {
	return &GormCustomerAccountRepository{db: tx}
}

// Save creates or updates a customer account
func (r *GormCustomerAccountRepository) Save(ctx context.Context, account *ledger.CustomerAccount) error {
	model := models.CustomerAccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a customer account by customer ID within a shop
func (r *GormCustomerAccountRepository) FindByID(ctx context.Context, shopID, customerID uuid.UUID) (*ledger.CustomerAccount, error) {
	var model models.CustomerAccountModel
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND id = ?", shopID, customerID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds customer accounts for a shop with pagination
func (r *GormCustomerAccountRepository) FindAll(ctx context.Context, shopID uuid.UUID, filter shared.Filter) ([]ledger.CustomerAccount, int64, error) {
	var accountModels []models.CustomerAccountModel

	base := r.db.WithContext(ctx).Model(&models.CustomerAccountModel{}).Where("shop_id = ?", shopID)
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		base = base.Where("name ILIKE ? OR phone ILIKE ?", searchPattern, searchPattern)
	}
	if hasDebt, ok := filter.Filters["has_debt"].(bool); ok && hasDebt {
		base = base.Where("debt_balance > 0")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	sortField := ValidateSortField(filter.OrderBy, CustomerAccountSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	if err := query.Order(sortField + " " + sortOrder).Find(&accountModels).Error; err != nil {
		return nil, 0, err
	}

	accounts := make([]ledger.CustomerAccount, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, total, nil
}

var _ ledger.CustomerAccountRepository = (*GormCustomerAccountRepository)(nil)
