package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SorryIWinxX/webmanager/internal/models"
)

// MemoryNoticeRepository backs tests and the memory store driver. It mirrors
// the gorm repository's contract, including BeforeCreate-style defaults.
type MemoryNoticeRepository struct {
	mu      sync.RWMutex
	notices []models.MaintenanceNotice // newest first
}

func NewMemoryNoticeRepository() *MemoryNoticeRepository {
	return &MemoryNoticeRepository{}
}

func (r *MemoryNoticeRepository) Create(_ context.Context, notice *models.MaintenanceNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notice.ID == uuid.Nil {
		notice.ID = uuid.New()
	}
	if notice.Status == "" {
		notice.Status = models.NoticeStatusPending
	}
	now := time.Now().UTC()
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = now
		notice.UpdatedAt = now
	}
	// Head insert keeps ties in insertion order when listing newest-first.
	r.notices = append([]models.MaintenanceNotice{*notice}, r.notices...)
	return nil
}

func (r *MemoryNoticeRepository) Update(_ context.Context, notice *models.MaintenanceNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notices {
		if r.notices[i].ID == notice.ID {
			r.notices[i] = *notice
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryNoticeRepository) FindByID(_ context.Context, id uuid.UUID) (*models.MaintenanceNotice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.notices {
		if r.notices[i].ID == id {
			n := r.notices[i]
			return &n, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryNoticeRepository) List(_ context.Context) ([]models.MaintenanceNotice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MaintenanceNotice, len(r.notices))
	copy(out, r.notices)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryNoticeRepository) MarkSentIfPending(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notices {
		if r.notices[i].ID == id {
			if r.notices[i].Status != models.NoticeStatusPending {
				return false, nil
			}
			r.notices[i].Status = models.NoticeStatusSent
			r.notices[i].UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

// MemoryUserRepository is the in-memory counterpart of GormUserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
		user.UpdatedAt = now
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == user.ID {
			r.users[i] = *user
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.users {
		if strings.EqualFold(r.users[i].Username, username) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, len(r.users))
	copy(out, r.users)
	return out, nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.users {
		if r.users[i].ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemorySAPOrderRepository is the in-memory counterpart of GormSAPOrderRepository.
type MemorySAPOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]models.SAPOrder
}

func NewMemorySAPOrderRepository() *MemorySAPOrderRepository {
	return &MemorySAPOrderRepository{orders: map[string]models.SAPOrder{}}
}

func (r *MemorySAPOrderRepository) List(_ context.Context) ([]models.SAPOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.SAPOrder, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SyncedAt.Equal(out[j].SyncedAt) {
			return out[i].OrderNumber < out[j].OrderNumber
		}
		return out[i].SyncedAt.After(out[j].SyncedAt)
	})
	return out, nil
}

func (r *MemorySAPOrderRepository) Upsert(_ context.Context, order *models.SAPOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders[order.OrderNumber] = *order
	return nil
}

