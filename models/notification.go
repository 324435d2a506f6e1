package models

import (
	"encoding/json"
	"time"
)

type Notification struct {
	NotificationID      uint       `gorm:"primaryKey;column:notification_id" json:"notification_id"`
	UserID              uint       `gorm:"column:user_id" json:"user_id"`
	Title               string     `gorm:"column:title" json:"title"`
	Message             string     `gorm:"column:message" json:"message"`
	Type                string     `gorm:"column:type" json:"type"` // info|success|warning|error
	RelatedInspectionID *string    `gorm:"column:related_inspection_id;size:64" json:"related_inspection_id,omitempty"`
	IsRead              bool       `gorm:"column:is_read" json:"is_read"`
	CreateAt            time.Time  `gorm:"column:create_at" json:"created_at"`
	UpdateAt            *time.Time `gorm:"column:update_at" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationTemplate is an editable template row; titles and bodies
// use {{placeholder}} markers filled at send time.
type NotificationTemplate struct {
	ID            uint            `gorm:"primaryKey;column:id" json:"id"`
	EventKey      string          `gorm:"column:event_key" json:"event_key"`
	SendTo        string          `gorm:"column:send_to" json:"send_to"`
	TitleTemplate string          `gorm:"column:title_template" json:"title_template"`
	BodyTemplate  string          `gorm:"column:body_template" json:"body_template"`
	Description   *string         `gorm:"column:description" json:"description,omitempty"`
	Variables     json.RawMessage `gorm:"column:variables" json:"variables"`
	IsActive      bool            `gorm:"column:is_active" json:"is_active"`
	UpdatedBy     *uint           `gorm:"column:updated_by" json:"updated_by,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (NotificationTemplate) TableName() string { return "notification_templates" }

// Notification event keys and audiences.
const (
	EventInspectionSubmitted = "inspection_submitted"
	EventInspectionApproved  = "inspection_approved"
	EventInspectionRejected  = "inspection_rejected"

	SendToInspector = "inspector"
	SendToReviewers = "reviewers"
)
