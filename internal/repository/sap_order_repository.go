package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SorryIWinxX/webmanager/internal/models"
)

// GormSAPOrderRepository persists the work-order projection through gorm.
type GormSAPOrderRepository struct {
	db *gorm.DB
}

// NewGormSAPOrderRepository constructs a repository using the provided gorm DB.
func NewGormSAPOrderRepository(db *gorm.DB) *GormSAPOrderRepository {
	return &GormSAPOrderRepository{db: db}
}

// List returns all projected orders, newest first.
func (r *GormSAPOrderRepository) List(ctx context.Context) ([]models.SAPOrder, error) {
	var orders []models.SAPOrder
	err := r.db.WithContext(ctx).Order("synced_at desc").Find(&orders).Error
	return orders, errors.WithStack(err)
}

// Upsert inserts or replaces the projection row keyed by order number.
func (r *GormSAPOrderRepository) Upsert(ctx context.Context, order *models.SAPOrder) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_number"}},
			UpdateAll: true,
		}).
		Create(order).Error
	return errors.WithStack(err)
}
