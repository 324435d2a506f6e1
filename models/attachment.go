package models

import (
	"time"
)

// Attachment kinds.
const (
	AttachmentKindPhoto  = "photo"
	AttachmentKindReport = "report"
)

// Attachment is a stored file tied to an inspection: either a photo
// captured by the inspector or a report produced on approval. RemoteURL
// is set when the file was also mirrored to object storage.
type Attachment struct {
	AttachmentID int     `gorm:"primaryKey;column:attachment_id" json:"attachment_id"`
	InspectionID string  `gorm:"column:inspection_id;size:64;index" json:"inspection_id"`
	UploadedBy   int     `gorm:"column:uploaded_by" json:"uploaded_by"`
	Kind         string  `gorm:"column:kind;size:16" json:"kind"`
	OriginalName string  `gorm:"column:original_name" json:"original_name"`
	StoredPath   string  `gorm:"column:stored_path" json:"stored_path"`
	MimeType     string  `gorm:"column:mime_type" json:"mime_type"`
	FileSize     int64   `gorm:"column:file_size" json:"file_size"`
	RemoteURL    *string `gorm:"column:remote_url" json:"remote_url,omitempty"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Inspection Inspection `gorm:"foreignKey:InspectionID" json:"inspection,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}
