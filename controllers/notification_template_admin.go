package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"safety-inspection-api/config"
	"safety-inspection-api/middleware"
	"safety-inspection-api/models"
	"safety-inspection-api/services"
)

type notificationTemplateRequest struct {
	EventKey      string   `json:"event_key" binding:"required"`
	SendTo        string   `json:"send_to" binding:"required"`
	TitleTemplate string   `json:"title_template" binding:"required"`
	BodyTemplate  string   `json:"body_template" binding:"required"`
	Description   *string  `json:"description"`
	Variables     []string `json:"variables"`
	IsActive      *bool    `json:"is_active"`
}

func normalizeAudience(value string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case models.SendToInspector, models.SendToReviewers:
		return v, nil
	default:
		return "", errors.New("invalid send_to; must be inspector or reviewers")
	}
}

func buildVariablesJSON(values []string) json.RawMessage {
	if len(values) == 0 {
		return json.RawMessage("[]")
	}

	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	data, err := json.Marshal(cleaned)
	if err != nil {
		return json.RawMessage("[]")
	}
	return data
}

// ListNotificationTemplates - GET /api/admin/notification-templates
func ListNotificationTemplates(c *gin.Context) {
	var templates []models.NotificationTemplate

	q := config.DB.Model(&models.NotificationTemplate{})
	if eventKey := strings.TrimSpace(c.Query("event_key")); eventKey != "" {
		q = q.Where("event_key = ?", eventKey)
	}
	if sendTo := strings.TrimSpace(c.Query("send_to")); sendTo != "" {
		q = q.Where("send_to = ?", sendTo)
	}
	if isActive := strings.TrimSpace(c.Query("is_active")); isActive != "" {
		if isActive == "true" || isActive == "1" {
			q = q.Where("is_active = 1")
		} else if isActive == "false" || isActive == "0" {
			q = q.Where("is_active = 0")
		}
	}

	if err := q.Order("event_key, send_to").Find(&templates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list notification templates"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"items":   templates,
		"total":   len(templates),
	})
}

// CreateNotificationTemplate - POST /api/admin/notification-templates
func CreateNotificationTemplate(c *gin.Context) {
	var req notificationTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	audience, err := normalizeAudience(req.SendTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	now := time.Now()
	tmpl := models.NotificationTemplate{
		EventKey:      strings.TrimSpace(req.EventKey),
		SendTo:        audience,
		TitleTemplate: strings.TrimSpace(req.TitleTemplate),
		BodyTemplate:  strings.TrimSpace(req.BodyTemplate),
		Description:   req.Description,
		Variables:     buildVariablesJSON(req.Variables),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.IsActive != nil {
		tmpl.IsActive = *req.IsActive
	}

	uid := uint(middleware.CurrentUserID(c))
	tmpl.UpdatedBy = &uid

	if err := config.DB.Create(&tmpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create notification template"})
		return
	}

	services.ClearTemplateCache()
	c.JSON(http.StatusCreated, gin.H{"success": true, "notification_template": tmpl})
}

// UpdateNotificationTemplate - PUT /api/admin/notification-templates/:id
func UpdateNotificationTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	var req notificationTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	audience, err := normalizeAudience(req.SendTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	var tmpl models.NotificationTemplate
	if err := config.DB.First(&tmpl, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "notification template not found"})
		return
	}

	updates := map[string]interface{}{
		"event_key":      strings.TrimSpace(req.EventKey),
		"send_to":        audience,
		"title_template": strings.TrimSpace(req.TitleTemplate),
		"body_template":  strings.TrimSpace(req.BodyTemplate),
		"description":    req.Description,
		"variables":      buildVariablesJSON(req.Variables),
		"updated_by":     uint(middleware.CurrentUserID(c)),
		"updated_at":     time.Now(),
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := config.DB.Model(&tmpl).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update notification template"})
		return
	}

	if err := config.DB.First(&tmpl, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to reload notification template"})
		return
	}

	services.ClearTemplateCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "notification_template": tmpl})
}

// ResetNotificationTemplate - POST /api/admin/notification-templates/:id/reset
// Restores the compiled-in default wording for the row's event and
// audience.
func ResetNotificationTemplate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid id"})
		return
	}

	var tmpl models.NotificationTemplate
	if err := config.DB.First(&tmpl, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "notification template not found"})
		return
	}

	defaultTitle, defaultBody, ok := services.DefaultTemplate(tmpl.EventKey, tmpl.SendTo)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no default wording for this event and audience"})
		return
	}

	updates := map[string]interface{}{
		"title_template": defaultTitle,
		"body_template":  defaultBody,
		"is_active":      true,
		"updated_by":     uint(middleware.CurrentUserID(c)),
		"updated_at":     time.Now(),
	}

	if err := config.DB.Model(&tmpl).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to reset notification template"})
		return
	}

	if err := config.DB.First(&tmpl, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to reload notification template"})
		return
	}

	services.ClearTemplateCache()
	c.JSON(http.StatusOK, gin.H{"success": true, "notification_template": tmpl})
}
