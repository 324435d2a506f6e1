package models

import "time"

// AuditLog keeps a trail of state-changing actions with the request
// origin. NewValues holds a JSON snapshot of the written fields.
type AuditLog struct {
	LogID      int     `gorm:"primaryKey;column:log_id" json:"log_id"`
	UserID     int     `gorm:"column:user_id" json:"user_id"`
	Action     string  `gorm:"column:action" json:"action"`
	EntityType string  `gorm:"column:entity_type" json:"entity_type"`
	EntityID   string  `gorm:"column:entity_id" json:"entity_id"`
	NewValues  *string `gorm:"column:new_values;type:text" json:"new_values,omitempty"`
	IPAddress  *string `gorm:"column:ip_address" json:"ip_address,omitempty"`
	UserAgent  *string `gorm:"column:user_agent" json:"user_agent,omitempty"`

	CreateAt time.Time `gorm:"column:create_at" json:"create_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
