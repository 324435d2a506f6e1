package models

import "time"

// PushSubscription stores a browser push endpoint registered by a user.
// Endpoints are unique; re-subscribing refreshes the keys. Rows are
// pruned when the push service reports the endpoint gone (404/410).
type PushSubscription struct {
	SubscriptionID uint       `gorm:"primaryKey;column:subscription_id" json:"subscription_id"`
	UserID         uint       `gorm:"column:user_id;index" json:"user_id"`
	Endpoint       string     `gorm:"column:endpoint;size:500;uniqueIndex" json:"endpoint"`
	P256dh         string     `gorm:"column:p256dh" json:"p256dh"`
	Auth           string     `gorm:"column:auth" json:"auth"`
	UserAgent      *string    `gorm:"column:user_agent" json:"user_agent,omitempty"`
	CreateAt       time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt       *time.Time `gorm:"column:update_at" json:"-"`
}

func (PushSubscription) TableName() string { return "push_subscriptions" }
