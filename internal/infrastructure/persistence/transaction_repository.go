package persistence

import (
	"context"

	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements finance.TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Sum totals the amounts of the owner's transactions of one kind whose
// occurred_at falls in [filter.Period.From, filter.Period.To).
func (r *GormTransactionRepository) Sum(ctx context.Context, filter finance.TransactionFilter) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	query := r.db.WithContext(ctx).Model(&models.TransactionModel{}).
		Scopes(ownedBy(filter.OwnerID)).
		Where("kind = ?", filter.Kind).
		Where("occurred_at >= ? AND occurred_at < ?", filter.Period.From.UTC(), filter.Period.To.UTC())
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if err := query.Select("COALESCE(SUM(amount), 0) as total").Scan(&result).Error; err != nil {
		return decimal.Zero, translate(err, "sum transactions")
	}
	return result.Total, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *finance.Transaction) error {
	return translate(r.db.WithContext(ctx).Save(models.TransactionModelFromDomain(tx)).Error, "save transaction")
}
