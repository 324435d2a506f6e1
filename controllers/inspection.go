package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"safety-inspection-api/cache"
	"safety-inspection-api/config"
	"safety-inspection-api/middleware"
	"safety-inspection-api/models"
	"safety-inspection-api/services"
	"safety-inspection-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newReviewService() *services.ReviewService {
	return services.NewReviewService(
		config.DB,
		nil,
		nil,
		services.NewNotificationService(config.DB),
		services.NewSpacesService(),
	)
}

// CreateInspection stores a new inspection record. Requests carrying a
// clientRef are idempotent: a repeat sync returns the already-created
// record instead of a duplicate.
func CreateInspection(c *gin.Context) {
	var payload services.InspectionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	userID := middleware.CurrentUserID(c)
	roleID := middleware.CurrentRoleID(c)

	clientRef := strings.TrimSpace(payload.ClientRef)
	if clientRef != "" {
		var existing models.Inspection
		err := config.DB.Where("client_ref = ?", clientRef).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"message":    "Inspection already synced",
				"inspection": existing,
			})
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inspection"})
			return
		}
	}

	if payload.Status == "" {
		payload.Status = string(models.StatusDraft)
	}
	status, ok := utils.ParseInspectionStatus(payload.Status)
	if !ok || (status != models.StatusDraft && status != models.StatusPendingReview) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be draft or pending_review"})
		return
	}

	// Inspectors always own what they create; only reviewers may file a
	// record on another inspector's behalf.
	if roleID == models.RoleInspector {
		payload.InspectorID = userID
	}

	now := time.Now()
	inspection, err := payload.ToInspection(uuid.New().String(), clientRef, userID, now)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if inspection.InspectedBy == "" {
		inspection.InspectedBy = middleware.CurrentUserName(c)
	}

	if err := config.DB.Create(inspection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inspection"})
		return
	}

	auditCreate(c, userID, "inspection_created", inspection.ID)

	if inspection.Status == models.StatusPendingReview {
		notifier := services.NewNotificationService(config.DB)
		notifier.NotifyInspectionEvent(c.Request.Context(), models.EventInspectionSubmitted, inspection, middleware.CurrentUserName(c))
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Inspection created successfully",
		"inspection": inspection,
	})
}

// GetInspections lists inspections. Inspectors only ever see their own
// records; reviewers and admins see everything unless mine=true.
func GetInspections(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	roleID := middleware.CurrentRoleID(c)

	query := config.DB.Model(&models.Inspection{}).Preload("Inspector")

	scopedToOwn := roleID == models.RoleInspector || strings.EqualFold(c.Query("mine"), "true")
	if scopedToOwn {
		query = query.Where("inspector_id = ?", userID)
	}

	statusFilter := strings.TrimSpace(c.Query("status"))
	var status models.InspectionStatus
	if statusFilter != "" {
		parsed, ok := utils.ParseInspectionStatus(statusFilter)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		status = parsed
		query = query.Where("status = ?", status)
	}

	typeFilter := strings.TrimSpace(c.Query("type"))
	var inspType models.InspectionType
	if typeFilter != "" {
		parsed, ok := utils.ParseInspectionType(typeFilter)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type filter"})
			return
		}
		inspType = parsed
		query = query.Where("inspection_type = ?", inspType)
	}

	var inspections []models.Inspection
	if err := query.Order("create_at DESC").Find(&inspections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inspections"})
		return
	}

	if status == models.StatusPendingReview {
		services.SortBySubmittedAtDesc(inspections)
	}

	// A full (unfiltered-by-status) reviewer read is the freshest view
	// there is; mirror it into the legacy sync snapshots.
	if !scopedToOwn && statusFilter == "" {
		refreshSyncSnapshots(inspections)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"inspections": inspections,
		"count":       len(inspections),
	})
}

func refreshSyncSnapshots(inspections []models.Inspection) {
	store := services.DefaultSyncStore()
	grouped := map[string][]models.Inspection{}
	for _, insp := range inspections {
		key := utils.StorageKeyFor(insp.Type)
		grouped[key] = append(grouped[key], insp)
	}
	for key, group := range grouped {
		if err := cache.SaveSnapshot(store, key, cache.SnapshotFromInspections(group)); err != nil {
			log.Printf("failed to refresh sync snapshot %s: %v", key, err)
		}
	}
}

// GetInspection returns one record with inspector and reviewer info.
func GetInspection(c *gin.Context) {
	id := c.Param("id")

	var inspection models.Inspection
	if err := config.DB.Preload("Inspector").Preload("Reviewer").
		Where("inspection_id = ? OR client_ref = ?", id, id).
		First(&inspection).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inspection not found"})
		return
	}

	userID := middleware.CurrentUserID(c)
	if middleware.CurrentRoleID(c) == models.RoleInspector && inspection.InspectorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"inspection": inspection,
	})
}

// GetPendingReviewInspections returns the review queue, optionally
// filtered by type, newest submission first.
func GetPendingReviewInspections(c *gin.Context) {
	var inspections []models.Inspection
	if err := config.DB.Preload("Inspector").
		Where("status = ?", models.StatusPendingReview).
		Find(&inspections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pending inspections"})
		return
	}

	var typeFilter models.InspectionType
	if raw := strings.TrimSpace(c.Query("type")); raw != "" && raw != "all" {
		if parsed, ok := utils.ParseInspectionType(raw); ok {
			typeFilter = parsed
		}
	}

	inspections = services.FilterByType(inspections, typeFilter)
	services.SortBySubmittedAtDesc(inspections)
	entries := services.ToPendingEntries(inspections)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"inspections": entries,
		"count":       len(entries),
	})
}

type updateInspectionRequest struct {
	services.InspectionPayload
	ReviewComments    string `json:"reviewComments"`
	RejectionReason   string `json:"rejectionReason"`
	ReviewerSignature string `json:"reviewerSignature"`
	Notes             string `json:"notes"`
}

// payloadOrNil returns the embedded sync payload only when the request
// actually carried record content.
func (r *updateInspectionRequest) payloadOrNil() *services.InspectionPayload {
	if r.FormType == "" && r.Data == nil {
		return nil
	}
	return &r.InspectionPayload
}

// UpdateInspection dispatches on the requested status: review decisions
// and close-out go through the review machine, a resubmission returns a
// rejected record to the queue, and a plain update edits a draft.
func UpdateInspection(c *gin.Context) {
	id := c.Param("id")

	var req updateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	userID := middleware.CurrentUserID(c)
	roleID := middleware.CurrentRoleID(c)
	userName := middleware.CurrentUserName(c)

	status := strings.TrimSpace(req.Status)
	if status != "" {
		parsed, ok := utils.ParseInspectionStatus(status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
			return
		}
		status = string(parsed)
	}

	switch status {
	case string(models.StatusApproved):
		if !middleware.IsReviewer(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only reviewers can approve inspections"})
			return
		}
		result, err := newReviewService().Approve(c.Request.Context(), &services.ApproveInput{
			InspectionID: id,
			ReviewerID:   userID,
			ReviewerName: userName,
			Signature:    req.ReviewerSignature,
			Comments:     req.ReviewComments,
			Payload:      req.payloadOrNil(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		})
		respondReviewResult(c, result, err, "Inspection approved")

	case string(models.StatusRejected):
		if !middleware.IsReviewer(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only reviewers can reject inspections"})
			return
		}
		result, err := newReviewService().Reject(c.Request.Context(), &services.RejectInput{
			InspectionID: id,
			ReviewerID:   userID,
			ReviewerName: userName,
			Reason:       req.RejectionReason,
			Comments:     req.ReviewComments,
			Payload:      req.payloadOrNil(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		})
		respondReviewResult(c, result, err, "Inspection rejected")

	case string(models.StatusCompleted):
		if !middleware.IsReviewer(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only reviewers can close out inspections"})
			return
		}
		result, err := newReviewService().Complete(c.Request.Context(), &services.CompleteInput{
			InspectionID: id,
			ActorID:      userID,
			ActorName:    userName,
			Notes:        req.Notes,
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		})
		respondReviewResult(c, result, err, "Inspection completed")

	case string(models.StatusPendingReview):
		result, err := newReviewService().Resubmit(c.Request.Context(), &services.ResubmitInput{
			InspectionID: id,
			ActorID:      userID,
			ActorRole:    roleID,
			ActorName:    userName,
			Payload:      req.payloadOrNil(),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
		})
		respondReviewResult(c, result, err, "Inspection submitted for review")

	case "", string(models.StatusDraft):
		updateDraft(c, id, &req)

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported status transition"})
	}
}

// updateDraft edits a draft in place. Only the owner (or an admin) may
// edit, and only while the record is still a draft.
func updateDraft(c *gin.Context, id string, req *updateInspectionRequest) {
	userID := middleware.CurrentUserID(c)
	roleID := middleware.CurrentRoleID(c)

	var inspection models.Inspection
	if err := config.DB.Where("inspection_id = ? OR client_ref = ?", id, id).
		First(&inspection).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inspection not found"})
		return
	}
	if inspection.InspectorID != userID && roleID != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	if inspection.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft inspections can be edited"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	if req.Data != nil {
		raw, err := json.Marshal(req.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
			return
		}
		updates["form_data"] = string(raw)
	}
	if title := strings.TrimSpace(req.Title); title != "" {
		updates["title"] = title
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		updates["location"] = location
	}
	if company := strings.TrimSpace(req.Company); company != "" {
		updates["company"] = company
	}
	if designation := strings.TrimSpace(req.Designation); designation != "" {
		updates["designation"] = designation
	}
	if req.Signature != "" {
		updates["signature"] = req.Signature
	}

	if err := config.DB.Model(&models.Inspection{}).
		Where("inspection_id = ?", inspection.ID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inspection"})
		return
	}

	if err := config.DB.Where("inspection_id = ?", inspection.ID).First(&inspection).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Inspection updated",
			"inspection": inspection,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Inspection updated"})
}

// respondReviewResult flattens review-machine outcomes into the HTTP
// envelope. A non-nil result with an error means the transition
// committed but required report generation failed.
func respondReviewResult(c *gin.Context, result *services.ReviewResult, err error, message string) {
	if err != nil && result == nil {
		respondReviewError(c, err)
		return
	}

	body := gin.H{
		"success":    err == nil,
		"message":    message,
		"inspection": result.Inspection,
	}
	if len(result.Warnings) > 0 {
		body["warnings"] = result.Warnings
	}
	if result.MigratedFrom != "" {
		body["migratedFrom"] = result.MigratedFrom
	}
	if result.ReportFile != "" {
		body["reportFile"] = result.ReportFile
	}
	if result.ReportURL != "" {
		body["reportUrl"] = result.ReportURL
	}

	if err != nil {
		body["success"] = false
		body["error"] = "Report generation failed"
		c.JSON(http.StatusInternalServerError, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInspectionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Inspection not found"})
	case errors.Is(err, services.ErrNotPendingReview),
		errors.Is(err, services.ErrNotApproved),
		errors.Is(err, services.ErrCannotResubmit):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSignatureRequired),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrPayloadRequired),
		errors.Is(err, services.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inspection"})
	}
}

// DeleteInspection soft deletes a record (admin only, wired in routes).
func DeleteInspection(c *gin.Context) {
	id := c.Param("id")

	var inspection models.Inspection
	if err := config.DB.Where("inspection_id = ? OR client_ref = ?", id, id).
		First(&inspection).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inspection not found"})
		return
	}

	if err := config.DB.Delete(&inspection).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inspection"})
		return
	}

	auditCreate(c, middleware.CurrentUserID(c), "inspection_deleted", inspection.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Inspection deleted",
	})
}

// auditCreate stores a best-effort audit row for a controller action.
func auditCreate(c *gin.Context, userID int, action, entityID string) {
	ip := c.ClientIP()
	agent := c.Request.UserAgent()
	entry := models.AuditLog{
		UserID:     userID,
		Action:     action,
		EntityType: "inspection",
		EntityID:   entityID,
		CreateAt:   time.Now(),
	}
	if ip != "" {
		entry.IPAddress = &ip
	}
	if agent != "" {
		entry.UserAgent = &agent
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Printf("failed to write audit log (%s %s): %v", action, entityID, err)
	}
}
