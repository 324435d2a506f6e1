package models

import "time"

// InspectionReview is the audit record written for every approve/reject
// decision, one row per review round.
type InspectionReview struct {
	ReviewID        int     `gorm:"primaryKey;column:review_id" json:"review_id"`
	InspectionID    string  `gorm:"column:inspection_id;size:64;index" json:"inspection_id"`
	ReviewerID      int     `gorm:"column:reviewer_id" json:"reviewer_id"`
	ReviewRound     int     `gorm:"column:review_round" json:"review_round"`
	Decision        string  `gorm:"column:decision" json:"decision"`
	Comments        *string `gorm:"column:comments" json:"comments"`
	RejectionReason *string `gorm:"column:rejection_reason" json:"rejection_reason"`

	ReviewedAt time.Time `gorm:"column:reviewed_at" json:"reviewed_at"`

	Reviewer *User `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

// TableName specifies the table name for InspectionReview.
func (InspectionReview) TableName() string {
	return "inspection_reviews"
}

// InspectionStatusHistory tracks every status change an inspection goes
// through, including administrative ones.
type InspectionStatusHistory struct {
	HistoryID    int     `gorm:"primaryKey;column:history_id" json:"history_id"`
	InspectionID string  `gorm:"column:inspection_id;size:64;index" json:"inspection_id"`
	OldStatus    *string `gorm:"column:old_status" json:"old_status"`
	NewStatus    string  `gorm:"column:new_status" json:"new_status"`
	ChangedBy    int     `gorm:"column:changed_by" json:"changed_by"`
	Reason       *string `gorm:"column:reason" json:"reason"`
	Notes        *string `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for InspectionStatusHistory.
func (InspectionStatusHistory) TableName() string {
	return "inspection_status_history"
}
