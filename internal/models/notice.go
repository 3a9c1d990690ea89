package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoticeStatus describes the life-cycle state of a maintenance notice.
type NoticeStatus string

const (
	NoticeStatusPending NoticeStatus = "Pending"
	NoticeStatusSent    NoticeStatus = "Sent"
	// NoticeStatusFailed exists for parity with the external system's status
	// set. No transition assigns it yet.
	NoticeStatusFailed NoticeStatus = "Failed"
)

// MaintenanceNotice represents a plant maintenance notice awaiting submission
// to the external SAP system.
type MaintenanceNotice struct {
	ID                   uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ShortText            string       `json:"shortText"`
	Cause                string       `json:"cause,omitempty"`
	NoticeTypeID         *int         `json:"noticeTypeId,omitempty"`
	EquipmentID          *int         `json:"equipmentId,omitempty"`
	FunctionalLocationID *int         `json:"functionalLocationId,omitempty"`
	WorkCenterID         *int         `json:"workCenterId,omitempty"`
	ObjectPartID         *int         `json:"objectPartId,omitempty"`
	Priority             string       `json:"priority,omitempty"`
	StartDate            *time.Time   `json:"startDate,omitempty"`
	EndDate              *time.Time   `json:"endDate,omitempty"`
	StartTime            *time.Time   `json:"startTime,omitempty"`
	EndTime              *time.Time   `json:"endTime,omitempty"`
	ReporterID           *int         `json:"reporterId,omitempty"`
	ReporterName         string       `json:"reporterName,omitempty"`
	ImageURL             string       `json:"imageUrl,omitempty"`
	Status               NoticeStatus `json:"status"`
	CreatedAt            time.Time    `json:"createdAt"`
	UpdatedAt            time.Time    `json:"updatedAt"`
}

// BeforeCreate is a GORM hook that populates the primary key and default status.
func (n *MaintenanceNotice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = NoticeStatusPending
	}
	return nil
}

// Pending reports whether the notice is still awaiting submission.
func (n *MaintenanceNotice) Pending() bool {
	return n.Status == NoticeStatusPending
}
