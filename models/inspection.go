package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// InspectionType identifies which checklist form an inspection was
// captured with. The set is closed; per-type behavior (report layout,
// storage keys, labels) is table-driven, see utils and services.
type InspectionType string

const (
	TypeHSE              InspectionType = "hse"
	TypeFireExtinguisher InspectionType = "fire_extinguisher"
	TypeFirstAid         InspectionType = "first_aid"
	TypeHSEObservation   InspectionType = "hse_observation"
	TypeManhours         InspectionType = "manhours"
)

func (t InspectionType) IsValid() bool {
	switch t {
	case TypeHSE, TypeFireExtinguisher, TypeFirstAid, TypeHSEObservation, TypeManhours:
		return true
	}
	return false
}

func (t InspectionType) String() string { return string(t) }

// Label returns the display name used in lists and generated reports.
func (t InspectionType) Label() string {
	switch t {
	case TypeHSE:
		return "HSE Inspection"
	case TypeFireExtinguisher:
		return "Fire Extinguisher Inspection"
	case TypeFirstAid:
		return "First Aid Inspection"
	case TypeHSEObservation:
		return "HSE Observation"
	case TypeManhours:
		return "Manhours Report"
	}
	return "Inspection"
}

// InspectionStatus is the workflow state of an inspection record.
type InspectionStatus string

const (
	StatusDraft         InspectionStatus = "draft"
	StatusPendingReview InspectionStatus = "pending_review"
	StatusApproved      InspectionStatus = "approved"
	StatusRejected      InspectionStatus = "rejected"
	StatusCompleted     InspectionStatus = "completed"
)

func (s InspectionStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

func (s InspectionStatus) String() string { return string(s) }

// Inspection is the central record of the review workflow. The primary
// key is a server-issued UUID; records synced from offline clients keep
// their provisional timestamp id in client_ref so a retried sync finds
// the already-migrated row instead of creating a duplicate.
type Inspection struct {
	ID             string           `gorm:"primaryKey;column:inspection_id;size:64" json:"id"`
	ClientRef      *string          `gorm:"column:client_ref;size:64;uniqueIndex" json:"client_ref,omitempty"`
	Type           InspectionType   `gorm:"column:inspection_type;size:32;index" json:"type"`
	Status         InspectionStatus `gorm:"column:status;size:32;index" json:"status"`
	Title          string           `gorm:"column:title" json:"title"`
	InspectorID    int              `gorm:"column:inspector_id;index" json:"inspector_id"`
	InspectedBy    string           `gorm:"column:inspected_by" json:"inspected_by"`
	InspectionDate *time.Time       `gorm:"column:inspection_date" json:"inspection_date,omitempty"`
	Location       string           `gorm:"column:location" json:"location"`
	Company        string           `gorm:"column:company" json:"company"`
	Designation    string           `gorm:"column:designation" json:"designation"`
	FormData       json.RawMessage  `gorm:"column:form_data;type:json" json:"form_data,omitempty"`
	Signature      string           `gorm:"column:signature;type:longtext" json:"signature,omitempty"`
	SubmittedAt    *time.Time       `gorm:"column:submitted_at;index" json:"submitted_at,omitempty"`

	// Review fields, written together by a review transition only.
	ReviewedBy        *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewerName      *string    `gorm:"column:reviewer_name" json:"reviewer_name,omitempty"`
	ReviewedAt        *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewComments    *string    `gorm:"column:review_comments;type:text" json:"review_comments,omitempty"`
	RejectionReason   *string    `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	ReviewerSignature *string    `gorm:"column:reviewer_signature;type:longtext" json:"reviewer_signature,omitempty"`

	CreateAt *time.Time     `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time     `gorm:"column:update_at" json:"update_at"`
	DeleteAt gorm.DeletedAt `gorm:"column:delete_at;index" json:"delete_at,omitempty"`

	Inspector *User `gorm:"foreignKey:InspectorID" json:"inspector,omitempty"`
	Reviewer  *User `gorm:"foreignKey:ReviewedBy" json:"reviewer,omitempty"`
}

func (Inspection) TableName() string {
	return "inspections"
}

// DisplayTitle falls back to a type/location derived title so list rows
// never render blank.
func (i *Inspection) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	if i.Location != "" {
		return i.Type.Label() + " - " + i.Location
	}
	return i.Type.Label()
}

// FormDataMap decodes the raw form payload; nil form data decodes to an
// empty map.
func (i *Inspection) FormDataMap() (map[string]interface{}, error) {
	if len(i.FormData) == 0 {
		return map[string]interface{}{}, nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(i.FormData, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingReviewEntry is the read-only projection used by review queues.
// It is never persisted.
type PendingReviewEntry struct {
	ID             string           `json:"id"`
	Type           InspectionType   `json:"type"`
	TypeLabel      string           `json:"type_label"`
	Title          string           `json:"title"`
	Inspector      string           `json:"inspector"`
	Location       string           `json:"location"`
	Company        string           `json:"company"`
	InspectionDate *time.Time       `json:"inspection_date,omitempty"`
	SubmittedAt    *time.Time       `json:"submitted_at,omitempty"`
	Status         InspectionStatus `json:"status"`
}
