package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/domain/finance"
	"github.com/ntqnhu0105/DoAn-CoSo-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReportRepository implements finance.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GormReportRepository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// FindByOwnerAndMonth finds the owner's report for a calendar month
func (r *GormReportRepository) FindByOwnerAndMonth(ctx context.Context, ownerID uuid.UUID, month finance.Month) (*finance.Report, error) {
	var model models.ReportModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND year = ? AND month = ?", ownerID, month.Year, int(month.Month)).
		First(&model).Error; err != nil {
		return nil, translate(err, "find report")
	}
	return model.ToDomain(), nil
}

// ExistsForMonth reports whether the owner already has a report for the month
func (r *GormReportRepository) ExistsForMonth(ctx context.Context, ownerID uuid.UUID, month finance.Month) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ReportModel{}).
		Where("owner_id = ? AND year = ? AND month = ?", ownerID, month.Year, int(month.Month)).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, translate(err, "check report")
	}
	return count > 0, nil
}

// Create inserts a report. A concurrent insert for the same month surfaces
// as shared.ErrAlreadyExists through the unique index.
func (r *GormReportRepository) Create(ctx context.Context, report *finance.Report) error {
	return translate(r.db.WithContext(ctx).Create(models.ReportModelFromDomain(report)).Error, "create report")
}
