package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/SorryIWinxX/webmanager/internal/models"
)

// GormNoticeRepository persists notices in Postgres through gorm.
type GormNoticeRepository struct {
	db *gorm.DB
}

// NewGormNoticeRepository constructs a repository using the provided gorm DB.
func NewGormNoticeRepository(db *gorm.DB) *GormNoticeRepository {
	return &GormNoticeRepository{db: db}
}

// Create persists the notice instance.
func (r *GormNoticeRepository) Create(ctx context.Context, notice *models.MaintenanceNotice) error {
	return errors.WithStack(r.db.WithContext(ctx).Create(notice).Error)
}

// Update persists the modified notice.
func (r *GormNoticeRepository) Update(ctx context.Context, notice *models.MaintenanceNotice) error {
	return errors.WithStack(r.db.WithContext(ctx).Save(notice).Error)
}

// FindByID returns the notice by id.
func (r *GormNoticeRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceNotice, error) {
	var notice models.MaintenanceNotice
	if err := r.db.WithContext(ctx).First(&notice, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.WithStack(err)
	}
	return &notice, nil
}

// List returns all notices ordered by creation time descending.
func (r *GormNoticeRepository) List(ctx context.Context) ([]models.MaintenanceNotice, error) {
	var notices []models.MaintenanceNotice
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&notices).Error
	return notices, errors.WithStack(err)
}

// MarkSentIfPending performs a status-guarded transition so two racing batch
// submissions cannot both claim the same notice.
func (r *GormNoticeRepository) MarkSentIfPending(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.MaintenanceNotice{}).
		Where("id = ? AND status = ?", id, models.NoticeStatusPending).
		Updates(map[string]any{
			"status":     models.NoticeStatusSent,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, errors.WithStack(res.Error)
	}
	return res.RowsAffected > 0, nil
}
