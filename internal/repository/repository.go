package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/SorryIWinxX/webmanager/internal/models"
)

// ErrNotFound is returned by lookups for absent records. Both the gorm and
// in-memory implementations return it, so callers match with errors.Is.
var ErrNotFound = errors.New("record not found")

// IsNotFound reports whether err indicates an absent record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// NoticeRepository provides persistence access for maintenance notices.
type NoticeRepository interface {
	Create(ctx context.Context, notice *models.MaintenanceNotice) error
	Update(ctx context.Context, notice *models.MaintenanceNotice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceNotice, error)
	List(ctx context.Context) ([]models.MaintenanceNotice, error)
	// MarkSentIfPending transitions the notice to Sent only when it is still
	// Pending, reporting whether the transition happened. A false return with
	// a nil error means the notice was absent or already processed.
	MarkSentIfPending(ctx context.Context, id uuid.UUID) (bool, error)
}

// UserRepository provides persistence access for dashboard accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SAPOrderRepository holds the read-only work-order projection.
type SAPOrderRepository interface {
	List(ctx context.Context) ([]models.SAPOrder, error)
	Upsert(ctx context.Context, order *models.SAPOrder) error
}
