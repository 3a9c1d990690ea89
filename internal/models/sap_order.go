package models

import "time"

// SAPOrder is a read-only projection of a work order in the external system,
// linked back to a notice through the notification number. The projection is
// refreshed by the background worker and never written by request handlers.
type SAPOrder struct {
	OrderNumber           string     `gorm:"primaryKey" json:"orderNumber"`
	OrderType             string     `json:"orderType,omitempty"`
	NotificationNumber    string     `json:"notificationNumber,omitempty"`
	Description           string     `json:"description,omitempty"`
	Priority              string     `json:"priority,omitempty"`
	EquipmentNumber       string     `json:"equipmentNumber,omitempty"`
	EquipmentDescription  string     `json:"equipmentDescription,omitempty"`
	FunctionalLocation    string     `json:"functionalLocationLabel,omitempty"`
	FunctionalLocDesc     string     `json:"functionalLocationDescription,omitempty"`
	Assembly              string     `json:"assembly,omitempty"`
	PlanningPlant         string     `json:"planningPlant,omitempty"`
	PlannerGroup          string     `json:"plannerGroup,omitempty"`
	MainWorkCenter        string     `json:"mainWorkCenter,omitempty"`
	WorkCenter            string     `json:"workCenter,omitempty"`
	MaintenancePlant      string     `json:"maintenancePlant,omitempty"`
	ActivityType          string     `json:"activityType,omitempty"`
	ResponsiblePersonName string     `json:"responsiblePersonName,omitempty"`
	EnteredBy             string     `json:"enteredBy,omitempty"`
	CreatedOn             *time.Time `json:"createdOn,omitempty"`
	SyncedAt              time.Time  `json:"syncedAt"`
}
