package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"safety-inspection-api/cache"
	"safety-inspection-api/config"
	"safety-inspection-api/models"
	"safety-inspection-api/utils"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxSignatureBytes = 2 << 20

var (
	ErrInspectionNotFound = errors.New("inspection not found")
	ErrNotPendingReview   = errors.New("inspection is not pending review")
	ErrNotApproved        = errors.New("inspection is not approved")
	ErrNotOwner           = errors.New("inspection belongs to another inspector")
	ErrCannotResubmit     = errors.New("inspection cannot be resubmitted")
	ErrSignatureRequired  = errors.New("reviewer signature is required")
	ErrReasonRequired     = errors.New("rejection reason is required")
	ErrPayloadRequired    = errors.New("inspection payload is required for sync")
	ErrInvalidPayload     = errors.New("invalid inspection payload")
)

// ReviewNotifier delivers review events to the affected users. Failures
// stay inside the implementation; review flows never see them.
type ReviewNotifier interface {
	NotifyInspectionEvent(ctx context.Context, event string, inspection *models.Inspection, actorName string)
}

// ReportUploader mirrors generated documents to object storage.
type ReportUploader interface {
	Enabled() bool
	Upload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
}

// InspectionPayload is the client-side inspection record as submitted
// by sync requests. It carries everything needed to materialize a row
// that only ever existed on the device.
type InspectionPayload struct {
	ClientRef      string                 `json:"clientRef"`
	FormType       string                 `json:"formType"`
	Title          string                 `json:"title"`
	InspectorID    int                    `json:"inspectorId"`
	InspectedBy    string                 `json:"inspectedBy"`
	Designation    string                 `json:"designation"`
	Location       string                 `json:"location"`
	Company        string                 `json:"company"`
	InspectionDate string                 `json:"inspectionDate"`
	Data           map[string]interface{} `json:"data"`
	Signature      string                 `json:"signature"`
	SubmittedAt    string                 `json:"submittedAt"`
	Status         string                 `json:"status"`
}

// ToInspection builds a persistable record from the payload. The
// fallback inspector is used when the payload does not name an owner
// (a reviewer syncing a device export on someone's behalf).
func (p *InspectionPayload) ToInspection(id, clientRef string, fallbackInspector int, now time.Time) (*models.Inspection, error) {
	inspType, ok := utils.ParseInspectionType(p.FormType)
	if !ok {
		return nil, fmt.Errorf("%w: unknown form type %q", ErrInvalidPayload, p.FormType)
	}

	status := models.StatusPendingReview
	if p.Status != "" {
		parsed, ok := utils.ParseInspectionStatus(p.Status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidPayload, p.Status)
		}
		status = parsed
	}

	formData := json.RawMessage("{}")
	if p.Data != nil {
		raw, err := json.Marshal(p.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		formData = raw
	}

	inspectorID := p.InspectorID
	if inspectorID == 0 {
		inspectorID = fallbackInspector
	}

	submittedAt := ParseClientTime(p.SubmittedAt)
	if submittedAt == nil && status == models.StatusPendingReview {
		submittedAt = &now
	}

	var refPtr *string
	if ref := strings.TrimSpace(clientRef); ref != "" {
		refPtr = &ref
	}

	return &models.Inspection{
		ID:             id,
		ClientRef:      refPtr,
		Type:           inspType,
		Status:         status,
		Title:          strings.TrimSpace(p.Title),
		InspectorID:    inspectorID,
		InspectedBy:    strings.TrimSpace(p.InspectedBy),
		InspectionDate: ParseClientTime(p.InspectionDate),
		Location:       strings.TrimSpace(p.Location),
		Company:        strings.TrimSpace(p.Company),
		Designation:    strings.TrimSpace(p.Designation),
		FormData:       formData,
		Signature:      p.Signature,
		SubmittedAt:    submittedAt,
		CreateAt:       &now,
		UpdateAt:       &now,
	}, nil
}

// ParseClientTime accepts the timestamp spellings legacy clients send:
// RFC3339 variants, bare dates, and epoch values (seconds or millis).
func ParseClientTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	if epoch, err := strconv.ParseInt(value, 10, 64); err == nil && epoch > 0 {
		var t time.Time
		if epoch >= 1_000_000_000_000 {
			t = time.UnixMilli(epoch)
		} else {
			t = time.Unix(epoch, 0)
		}
		return &t
	}
	return nil
}

type ApproveInput struct {
	InspectionID string
	ReviewerID   int
	ReviewerName string
	Signature    string
	Comments     string
	Payload      *InspectionPayload
	IPAddress    string
	UserAgent    string
}

type RejectInput struct {
	InspectionID string
	ReviewerID   int
	ReviewerName string
	Reason       string
	Comments     string
	Payload      *InspectionPayload
	IPAddress    string
	UserAgent    string
}

type CompleteInput struct {
	InspectionID string
	ActorID      int
	ActorName    string
	Notes        string
	IPAddress    string
	UserAgent    string
}

type ResubmitInput struct {
	InspectionID string
	ActorID      int
	ActorRole    int
	ActorName    string
	Payload      *InspectionPayload
	IPAddress    string
	UserAgent    string
}

// ReviewResult reports a committed transition. A non-nil result means
// the database transition committed, even when the accompanying error
// is non-nil (required document generation failed after commit).
type ReviewResult struct {
	Inspection   *models.Inspection       `json:"inspection"`
	Review       *models.InspectionReview `json:"review,omitempty"`
	MigratedFrom string                   `json:"migrated_from,omitempty"`
	Warnings     []string                 `json:"warnings,omitempty"`
	ReportFile   string                   `json:"report_file,omitempty"`
	ReportURL    string                   `json:"report_url,omitempty"`
}

// ReviewService drives inspection status transitions and their
// post-commit side effects.
type ReviewService struct {
	db         *gorm.DB
	store      cache.Store
	exporter   *ExportService
	notifier   ReviewNotifier
	uploader   ReportUploader
	reportsDir string
	now        func() time.Time
}

func NewReviewService(db *gorm.DB, store cache.Store, exporter *ExportService, notifier ReviewNotifier, uploader ReportUploader) *ReviewService {
	if db == nil {
		db = config.DB
	}
	if store == nil {
		store = DefaultSyncStore()
	}
	if exporter == nil {
		exporter = NewExportService()
	}
	return &ReviewService{
		db:         db,
		store:      store,
		exporter:   exporter,
		notifier:   notifier,
		uploader:   uploader,
		reportsDir: filepath.Join(utils.UploadRoot(), "reports"),
		now:        time.Now,
	}
}

// DefaultSyncStore returns the Badger-backed sync store when the disk
// cache is open, an in-memory one otherwise.
func DefaultSyncStore() cache.Store {
	if config.SyncCache != nil {
		return cache.NewBadgerStore(config.SyncCache)
	}
	return cache.NewMemoryStore()
}

// Approve moves a pending inspection to approved and fans out the
// post-commit work: report generation, upload, notification, cache.
func (s *ReviewService) Approve(ctx context.Context, input *ApproveInput) (*ReviewResult, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}
	if input.ReviewerID == 0 {
		return nil, errors.New("reviewer id is required")
	}
	if strings.TrimSpace(input.Signature) == "" {
		return nil, ErrSignatureRequired
	}
	if _, _, err := utils.ParseImageDataURL(input.Signature, utils.SignatureMimes, maxSignatureBytes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignatureRequired, err)
	}

	now := s.now()
	comments := strings.TrimSpace(input.Comments)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	insp, migratedFrom, err := s.ensureInspection(tx, input.InspectionID, input.Payload, input.ReviewerID, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if insp.Status != models.StatusPendingReview {
		tx.Rollback()
		return nil, fmt.Errorf("%w: status is %s", ErrNotPendingReview, insp.Status)
	}

	round, err := nextReviewRound(tx, insp.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	updates := map[string]interface{}{
		"status":             models.StatusApproved,
		"reviewed_by":        input.ReviewerID,
		"reviewer_name":      input.ReviewerName,
		"reviewed_at":        now,
		"review_comments":    optString(comments),
		"reviewer_signature": input.Signature,
		"rejection_reason":   nil,
		"update_at":          now,
	}
	if err := tx.Model(&models.Inspection{}).
		Where("inspection_id = ?", insp.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	review := models.InspectionReview{
		InspectionID: insp.ID,
		ReviewerID:   input.ReviewerID,
		ReviewRound:  round,
		Decision:     string(models.StatusApproved),
		Comments:     optString(comments),
		ReviewedAt:   now,
	}
	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := writeHistory(tx, insp.ID, insp.Status, models.StatusApproved, input.ReviewerID, comments, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, input.ReviewerID, "inspection_approved", insp.ID, map[string]interface{}{
		"status":       models.StatusApproved,
		"reviewed_by":  input.ReviewerID,
		"review_round": round,
	}, input.IPAddress, input.UserAgent, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	insp.Status = models.StatusApproved
	insp.ReviewedBy = &input.ReviewerID
	insp.ReviewerName = optString(input.ReviewerName)
	insp.ReviewedAt = &now
	insp.ReviewComments = optString(comments)
	insp.ReviewerSignature = &input.Signature
	insp.RejectionReason = nil
	insp.UpdateAt = &now

	result := &ReviewResult{Inspection: insp, Review: &review, MigratedFrom: migratedFrom}

	detached := persistentContext(ctx)

	var excelDoc *GeneratedDocument
	excelErr := runSideEffect(SideEffect{Name: "excel report", Run: func() error {
		var genErr error
		excelDoc, genErr = s.generateAndStoreReport(insp, FormatExcel)
		return genErr
	}})
	if excelDoc != nil {
		result.ReportFile = excelDoc.FileName
	}

	var pdfDoc *GeneratedDocument
	effects := []SideEffect{
		{Name: "pdf report", Run: func() error {
			var genErr error
			pdfDoc, genErr = s.generateAndStoreReport(insp, FormatPDF)
			return genErr
		}},
		{Name: "report upload", Run: func() error {
			if s.uploader == nil || !s.uploader.Enabled() {
				return nil
			}
			if excelDoc == nil {
				return errors.New("workbook unavailable, nothing uploaded")
			}
			docs := []*GeneratedDocument{excelDoc}
			if pdfDoc != nil {
				docs = append(docs, pdfDoc)
			}
			for _, doc := range docs {
				key := fmt.Sprintf("reports/%s/%s", insp.ID, doc.FileName)
				url, upErr := s.uploader.Upload(detached, key, doc.Data, doc.ContentType)
				if upErr != nil {
					return upErr
				}
				if doc == excelDoc {
					result.ReportURL = url
				}
				if dbErr := s.db.Model(&models.Attachment{}).
					Where("inspection_id = ? AND original_name = ?", insp.ID, doc.FileName).
					Update("remote_url", url).Error; dbErr != nil {
					log.Printf("failed to record remote url for %s: %v", doc.FileName, dbErr)
				}
			}
			return nil
		}},
		{Name: "notify inspector", Silent: true, Run: func() error {
			if s.notifier != nil {
				s.notifier.NotifyInspectionEvent(detached, models.EventInspectionApproved, insp, input.ReviewerName)
			}
			return nil
		}},
		{Name: "sync cache", Silent: true, Run: func() error {
			return s.refreshCacheEntry(insp, migratedFrom)
		}},
	}
	result.Warnings = runSideEffects(effects)

	if excelErr != nil {
		return result, fmt.Errorf("report generation failed: %w", excelErr)
	}
	return result, nil
}

// Reject moves a pending inspection to rejected. Rejection generates no
// documents; the inspector is notified with the reason.
func (s *ReviewService) Reject(ctx context.Context, input *RejectInput) (*ReviewResult, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}
	if input.ReviewerID == 0 {
		return nil, errors.New("reviewer id is required")
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}
	comments := strings.TrimSpace(input.Comments)
	if comments == "" {
		comments = reason
	}

	now := s.now()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	insp, migratedFrom, err := s.ensureInspection(tx, input.InspectionID, input.Payload, input.ReviewerID, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if insp.Status != models.StatusPendingReview {
		tx.Rollback()
		return nil, fmt.Errorf("%w: status is %s", ErrNotPendingReview, insp.Status)
	}

	round, err := nextReviewRound(tx, insp.ID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	updates := map[string]interface{}{
		"status":             models.StatusRejected,
		"reviewed_by":        input.ReviewerID,
		"reviewer_name":      input.ReviewerName,
		"reviewed_at":        now,
		"review_comments":    comments,
		"rejection_reason":   reason,
		"reviewer_signature": nil,
		"update_at":          now,
	}
	if err := tx.Model(&models.Inspection{}).
		Where("inspection_id = ?", insp.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	review := models.InspectionReview{
		InspectionID:    insp.ID,
		ReviewerID:      input.ReviewerID,
		ReviewRound:     round,
		Decision:        string(models.StatusRejected),
		Comments:        optString(comments),
		RejectionReason: &reason,
		ReviewedAt:      now,
	}
	if err := tx.Create(&review).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := writeHistory(tx, insp.ID, insp.Status, models.StatusRejected, input.ReviewerID, reason, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, input.ReviewerID, "inspection_rejected", insp.ID, map[string]interface{}{
		"status":           models.StatusRejected,
		"reviewed_by":      input.ReviewerID,
		"rejection_reason": reason,
		"review_round":     round,
	}, input.IPAddress, input.UserAgent, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	insp.Status = models.StatusRejected
	insp.ReviewedBy = &input.ReviewerID
	insp.ReviewerName = optString(input.ReviewerName)
	insp.ReviewedAt = &now
	insp.ReviewComments = optString(comments)
	insp.RejectionReason = &reason
	insp.ReviewerSignature = nil
	insp.UpdateAt = &now

	result := &ReviewResult{Inspection: insp, Review: &review, MigratedFrom: migratedFrom}

	detached := persistentContext(ctx)
	result.Warnings = runSideEffects([]SideEffect{
		{Name: "notify inspector", Silent: true, Run: func() error {
			if s.notifier != nil {
				s.notifier.NotifyInspectionEvent(detached, models.EventInspectionRejected, insp, input.ReviewerName)
			}
			return nil
		}},
		{Name: "sync cache", Silent: true, Run: func() error {
			return s.refreshCacheEntry(insp, migratedFrom)
		}},
	})

	return result, nil
}

// Complete closes out an approved inspection. Administrative step, no
// review row and no documents.
func (s *ReviewService) Complete(ctx context.Context, input *CompleteInput) (*ReviewResult, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}
	if input.ActorID == 0 {
		return nil, errors.New("actor id is required")
	}

	now := s.now()
	notes := strings.TrimSpace(input.Notes)

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	insp, err := fetchForUpdate(tx, input.InspectionID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if insp.Status != models.StatusApproved {
		tx.Rollback()
		return nil, fmt.Errorf("%w: status is %s", ErrNotApproved, insp.Status)
	}

	updates := map[string]interface{}{
		"status":    models.StatusCompleted,
		"update_at": now,
	}
	if err := tx.Model(&models.Inspection{}).
		Where("inspection_id = ?", insp.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := writeHistory(tx, insp.ID, insp.Status, models.StatusCompleted, input.ActorID, notes, now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, input.ActorID, "inspection_completed", insp.ID, map[string]interface{}{
		"status": models.StatusCompleted,
	}, input.IPAddress, input.UserAgent, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	insp.Status = models.StatusCompleted
	insp.UpdateAt = &now

	result := &ReviewResult{Inspection: insp}
	result.Warnings = runSideEffects([]SideEffect{
		{Name: "sync cache", Silent: true, Run: func() error {
			return s.refreshCacheEntry(insp, "")
		}},
	})
	return result, nil
}

// Resubmit returns a rejected (or still-draft) inspection to the review
// queue, optionally refreshing its content from the client payload.
// Only the owning inspector or an admin may resubmit.
func (s *ReviewService) Resubmit(ctx context.Context, input *ResubmitInput) (*ReviewResult, error) {
	if input == nil {
		return nil, errors.New("input is nil")
	}
	if input.ActorID == 0 {
		return nil, errors.New("actor id is required")
	}

	now := s.now()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	insp, err := fetchForUpdate(tx, input.InspectionID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if insp.InspectorID != input.ActorID && input.ActorRole != models.RoleAdmin {
		tx.Rollback()
		return nil, ErrNotOwner
	}
	if insp.Status != models.StatusRejected && insp.Status != models.StatusDraft {
		tx.Rollback()
		return nil, fmt.Errorf("%w: status is %s", ErrCannotResubmit, insp.Status)
	}

	updates := map[string]interface{}{
		"status":           models.StatusPendingReview,
		"submitted_at":     now,
		"rejection_reason": nil,
		"update_at":        now,
	}
	if p := input.Payload; p != nil {
		if p.Data != nil {
			raw, marshalErr := json.Marshal(p.Data)
			if marshalErr != nil {
				tx.Rollback()
				return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, marshalErr)
			}
			updates["form_data"] = string(raw)
			insp.FormData = raw
		}
		if p.Signature != "" {
			updates["signature"] = p.Signature
			insp.Signature = p.Signature
		}
		if title := strings.TrimSpace(p.Title); title != "" {
			updates["title"] = title
			insp.Title = title
		}
		if location := strings.TrimSpace(p.Location); location != "" {
			updates["location"] = location
			insp.Location = location
		}
		if company := strings.TrimSpace(p.Company); company != "" {
			updates["company"] = company
			insp.Company = company
		}
		if when := ParseClientTime(p.InspectionDate); when != nil {
			updates["inspection_date"] = *when
			insp.InspectionDate = when
		}
	}
	if err := tx.Model(&models.Inspection{}).
		Where("inspection_id = ?", insp.ID).
		Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := writeHistory(tx, insp.ID, insp.Status, models.StatusPendingReview, input.ActorID, "resubmitted", now); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := writeAudit(tx, input.ActorID, "inspection_resubmitted", insp.ID, map[string]interface{}{
		"status": models.StatusPendingReview,
	}, input.IPAddress, input.UserAgent, now); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	insp.Status = models.StatusPendingReview
	insp.SubmittedAt = &now
	insp.RejectionReason = nil
	insp.UpdateAt = &now

	result := &ReviewResult{Inspection: insp}

	detached := persistentContext(ctx)
	result.Warnings = runSideEffects([]SideEffect{
		{Name: "notify reviewers", Silent: true, Run: func() error {
			if s.notifier != nil {
				s.notifier.NotifyInspectionEvent(detached, models.EventInspectionSubmitted, insp, input.ActorName)
			}
			return nil
		}},
		{Name: "sync cache", Silent: true, Run: func() error {
			return s.refreshCacheEntry(insp, "")
		}},
	})
	return result, nil
}

// ensureInspection resolves the target record, materializing it from
// the payload when the id is a provisional client id that never reached
// the server. The returned string is the provisional id when a
// migration happened (caller rewrites the sync cache with it).
func (s *ReviewService) ensureInspection(tx *gorm.DB, id string, payload *InspectionPayload, actorID int, now time.Time) (*models.Inspection, string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, "", ErrInspectionNotFound
	}

	var insp models.Inspection
	err := tx.Where("inspection_id = ? OR client_ref = ?", id, id).First(&insp).Error
	if err == nil {
		migrated := ""
		if insp.ID != id {
			migrated = id
		}
		return &insp, migrated, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}
	if !utils.IsProvisionalID(id) {
		return nil, "", ErrInspectionNotFound
	}
	if payload == nil {
		return nil, "", ErrPayloadRequired
	}

	created, err := payload.ToInspection(uuid.New().String(), id, actorID, now)
	if err != nil {
		return nil, "", err
	}
	if err := tx.Create(created).Error; err != nil {
		// A concurrent sync of the same provisional id can win the
		// insert; the client_ref unique key turns that into a
		// duplicate-key error and the winner's row is the record.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			if err := tx.Where("client_ref = ?", id).First(&insp).Error; err != nil {
				return nil, "", err
			}
			return &insp, id, nil
		}
		return nil, "", err
	}
	return created, id, nil
}

func fetchForUpdate(tx *gorm.DB, id string) (*models.Inspection, error) {
	var insp models.Inspection
	err := tx.Where("inspection_id = ? OR client_ref = ?", id, id).First(&insp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInspectionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &insp, nil
}

func nextReviewRound(tx *gorm.DB, inspectionID string) (int, error) {
	var count int64
	if err := tx.Model(&models.InspectionReview{}).
		Where("inspection_id = ?", inspectionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count) + 1, nil
}

func writeHistory(tx *gorm.DB, inspectionID string, oldStatus, newStatus models.InspectionStatus, changedBy int, reason string, at time.Time) error {
	entry := models.InspectionStatusHistory{
		InspectionID: inspectionID,
		OldStatus:    optString(string(oldStatus)),
		NewStatus:    string(newStatus),
		ChangedBy:    changedBy,
		Reason:       optString(reason),
		CreatedAt:    at,
	}
	return tx.Create(&entry).Error
}

func writeAudit(tx *gorm.DB, userID int, action, entityID string, values map[string]interface{}, ip, agent string, at time.Time) error {
	entry := models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: "inspection",
		EntityID:   entityID,
		IPAddress:  optString(ip),
		UserAgent:  optString(agent),
		CreateAt:   at,
	}
	if values != nil {
		if raw, err := json.Marshal(values); err == nil {
			encoded := string(raw)
			entry.NewValues = &encoded
		}
	}
	return tx.Create(&entry).Error
}

func optString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// generateAndStoreReport renders one document, writes it under the
// reports folder and records it as an attachment. The file is removed
// again when the database row cannot be saved.
func (s *ReviewService) generateAndStoreReport(insp *models.Inspection, format ReportFormat) (*GeneratedDocument, error) {
	req, err := ReportRequestFor(insp, format)
	if err != nil {
		return nil, err
	}

	doc, err := s.exporter.Generate(req)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.reportsDir, insp.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	storedPath := filepath.Join(dir, doc.FileName)
	if err := os.WriteFile(storedPath, doc.Data, 0o644); err != nil {
		return nil, err
	}

	uploadedBy := 0
	if insp.ReviewedBy != nil {
		uploadedBy = *insp.ReviewedBy
	}
	now := s.now()
	attachment := models.Attachment{
		InspectionID: insp.ID,
		UploadedBy:   uploadedBy,
		Kind:         models.AttachmentKindReport,
		OriginalName: doc.FileName,
		StoredPath:   storedPath,
		MimeType:     doc.ContentType,
		FileSize:     int64(len(doc.Data)),
		CreateAt:     &now,
		UpdateAt:     &now,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		os.Remove(storedPath)
		return nil, err
	}
	return doc, nil
}

func (s *ReviewService) refreshCacheEntry(insp *models.Inspection, migratedFrom string) error {
	if s.store == nil {
		return nil
	}
	key := utils.StorageKeyFor(insp.Type)
	if migratedFrom != "" {
		if err := cache.ReplaceID(s.store, key, migratedFrom, insp.ID); err != nil {
			return err
		}
	}
	return cache.SetStatus(s.store, key, insp.ID, insp.Status)
}
