package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole distinguishes dashboard administrators from plant operators.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
)

// User is a dashboard account. Operators carry a workstation and no password;
// admins carry a bcrypt password hash and no workstation.
type User struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username            string    `gorm:"uniqueIndex" json:"username"`
	Role                UserRole  `json:"role"`
	PasswordHash        string    `gorm:"column:password_hash" json:"-"`
	Workstation         string    `json:"workstation,omitempty"`
	ForcePasswordChange bool      `json:"forcePasswordChange"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that populates the primary key.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Sanitized returns a copy safe to hand to callers. The hash is excluded from
// JSON already; clearing it keeps in-process copies clean too.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	return u
}

// Reporter is a lightweight field-reporting identity managed entirely by the
// external system. It is never stored locally.
type Reporter struct {
	ID            int    `json:"id"`
	Cedula        string `json:"cedula"`
	WorkstationID int    `json:"workstationId"`
}
