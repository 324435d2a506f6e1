package services

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"strings"
	"sync"
	"time"

	"safety-inspection-api/config"
	"safety-inspection-api/models"
	"safety-inspection-api/utils"

	"gorm.io/gorm"
)

var (
	templateCacheMu sync.RWMutex
	templateCache   = map[string]*templateCacheEntry{}
	templateTTL     = 5 * time.Minute
)

type templateCacheEntry struct {
	tmpl      *models.NotificationTemplate
	fetchedAt time.Time
}

type templatedMessage struct {
	Title string
	Body  string
}

// Fallbacks used when the notification_templates table has no active row
// for an event, so a fresh install still notifies.
var defaultTemplates = map[string]templatedMessage{
	models.EventInspectionSubmitted + "|" + models.SendToReviewers: {
		Title: "Inspection submitted: {{title}}",
		Body:  "{{inspector}} submitted {{type}} \"{{title}}\" at {{location}} for review.",
	},
	models.EventInspectionApproved + "|" + models.SendToInspector: {
		Title: "Inspection approved: {{title}}",
		Body:  "{{reviewer}} approved your {{type}} \"{{title}}\".",
	},
	models.EventInspectionRejected + "|" + models.SendToInspector: {
		Title: "Inspection rejected: {{title}}",
		Body:  "{{reviewer}} rejected your {{type}} \"{{title}}\". Reason: {{reason}}",
	},
}

// NotificationService renders event templates, stores notification rows
// and fans out push and email delivery. Every failure here is logged
// and swallowed; callers never observe notification errors.
type NotificationService struct {
	db   *gorm.DB
	push *PushService
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	if db == nil {
		db = config.DB
	}
	return &NotificationService{db: db, push: NewPushService(db)}
}

// ClearTemplateCache invalidates the in-memory template cache.
func ClearTemplateCache() {
	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()
	templateCache = map[string]*templateCacheEntry{}
}

// DefaultTemplate returns the compiled-in template for an event and
// audience, used to reset edited rows.
func DefaultTemplate(eventKey, sendTo string) (title, body string, ok bool) {
	tmpl, ok := defaultTemplates[eventKey+"|"+sendTo]
	if !ok {
		return "", "", false
	}
	return tmpl.Title, tmpl.Body, true
}

func (s *NotificationService) fetchTemplate(eventKey, sendTo string) (*models.NotificationTemplate, error) {
	cacheKey := eventKey + "|" + sendTo

	templateCacheMu.RLock()
	cached := templateCache[cacheKey]
	templateCacheMu.RUnlock()
	if cached != nil && time.Since(cached.fetchedAt) < templateTTL {
		return cached.tmpl, nil
	}

	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()
	if cached := templateCache[cacheKey]; cached != nil && time.Since(cached.fetchedAt) < templateTTL {
		return cached.tmpl, nil
	}

	var tmpl models.NotificationTemplate
	err := s.db.Where("event_key = ? AND send_to = ? AND is_active = 1", eventKey, sendTo).
		First(&tmpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Cache the miss too; built-in defaults take over.
			templateCache[cacheKey] = &templateCacheEntry{tmpl: nil, fetchedAt: time.Now()}
			return nil, nil
		}
		return nil, err
	}

	templateCache[cacheKey] = &templateCacheEntry{tmpl: &tmpl, fetchedAt: time.Now()}
	return &tmpl, nil
}

func applyTemplatePlaceholders(text string, data map[string]string) string {
	result := text
	for key, value := range data {
		placeholder := "{{" + key + "}}"
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

func (s *NotificationService) buildMessage(eventKey, sendTo string, data map[string]string) (templatedMessage, error) {
	tmpl, err := s.fetchTemplate(eventKey, sendTo)
	if err != nil {
		return templatedMessage{}, err
	}
	if tmpl != nil {
		return templatedMessage{
			Title: applyTemplatePlaceholders(tmpl.TitleTemplate, data),
			Body:  applyTemplatePlaceholders(tmpl.BodyTemplate, data),
		}, nil
	}
	if fallback, ok := defaultTemplates[eventKey+"|"+sendTo]; ok {
		return templatedMessage{
			Title: applyTemplatePlaceholders(fallback.Title, data),
			Body:  applyTemplatePlaceholders(fallback.Body, data),
		}, nil
	}
	return templatedMessage{}, fmt.Errorf("no notification template for event %s -> %s", eventKey, sendTo)
}

func placeholderData(insp *models.Inspection, actorName string) map[string]string {
	data := map[string]string{
		"title":     insp.DisplayTitle(),
		"type":      insp.Type.Label(),
		"inspector": insp.InspectedBy,
		"reviewer":  actorName,
		"location":  insp.Location,
		"company":   insp.Company,
		"date":      utils.FormatReportDatePtr(insp.InspectionDate),
		"reason":    "",
	}
	if insp.RejectionReason != nil {
		data["reason"] = *insp.RejectionReason
	}
	return data
}

func notificationType(event string) string {
	switch event {
	case models.EventInspectionApproved:
		return "success"
	case models.EventInspectionRejected:
		return "warning"
	default:
		return "info"
	}
}

// NotifyInspectionEvent resolves the audience for the event, stores one
// notification row per recipient and fans out push and email delivery
// on a detached goroutine.
func (s *NotificationService) NotifyInspectionEvent(ctx context.Context, event string, insp *models.Inspection, actorName string) {
	if insp == nil {
		return
	}

	var (
		sendTo     string
		recipients []uint
	)
	switch event {
	case models.EventInspectionApproved, models.EventInspectionRejected:
		sendTo = models.SendToInspector
		if insp.InspectorID > 0 {
			recipients = append(recipients, uint(insp.InspectorID))
		}
	case models.EventInspectionSubmitted:
		sendTo = models.SendToReviewers
		ids, err := s.reviewerIDs()
		if err != nil {
			log.Printf("failed to resolve reviewers for %s: %v", event, err)
			return
		}
		recipients = ids
	default:
		log.Printf("unknown notification event %q", event)
		return
	}
	if len(recipients) == 0 {
		return
	}

	msg, err := s.buildMessage(event, sendTo, placeholderData(insp, actorName))
	if err != nil {
		log.Printf("failed to build %s notification: %v", event, err)
		return
	}

	now := time.Now()
	inspectionID := insp.ID
	for _, userID := range recipients {
		row := models.Notification{
			UserID:              userID,
			Title:               msg.Title,
			Message:             msg.Body,
			Type:                notificationType(event),
			RelatedInspectionID: &inspectionID,
			IsRead:              false,
			CreateAt:            now,
		}
		if err := s.db.Create(&row).Error; err != nil {
			log.Printf("failed to store notification for user %d: %v", userID, err)
		}
	}

	go s.fanOut(persistentContext(ctx), recipients, msg)
}

// reviewerIDs lists active supervisors and admins.
func (s *NotificationService) reviewerIDs() ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.User{}).
		Where("role_id IN ? AND delete_at IS NULL", []int{models.RoleSupervisor, models.RoleAdmin}).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *NotificationService) fanOut(ctx context.Context, userIDs []uint, msg templatedMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notification fan-out panic: %v", r)
		}
	}()

	if s.push != nil {
		for _, userID := range userIDs {
			s.push.SendToUser(ctx, userID, msg.Title, msg.Body)
		}
	}

	var users []models.User
	if err := s.db.Where("user_id IN ? AND delete_at IS NULL", userIDs).Find(&users).Error; err != nil {
		log.Printf("failed to load notification recipients: %v", err)
		return
	}
	for _, user := range users {
		if user.Email == "" {
			continue
		}
		sendMailSafe([]string{user.Email}, msg.Title, buildEmailHTML(msg.Title, user.FullName(), msg.Body))
	}
}

func sendMailSafe(to []string, subject, html string) {
	if err := config.SendMail(to, subject, html); err != nil {
		log.Printf("notification email send failed (subject=%q to=%v): %v", subject, to, err)
	}
}

func buildEmailHTML(subject, name, message string) string {
	escapedSubject := template.HTMLEscapeString(subject)
	escapedGreeting := template.HTMLEscapeString(fmt.Sprintf("Dear %s,", name))
	escapedMessage := template.HTMLEscapeString(strings.TrimSpace(message))
	escapedMessage = strings.ReplaceAll(strings.ReplaceAll(escapedMessage, "\r\n", "\n"), "\r", "\n")
	escapedMessage = strings.ReplaceAll(escapedMessage, "\n", "<br />")

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:'Segoe UI',Tahoma,Arial,sans-serif;">
<div style="max-width:640px;margin:0 auto;padding:24px 20px;">
  <div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px 24px 28px 24px;">
    <p style="margin:0 0 16px 0;font-size:16px;line-height:1.7;color:#111827;">%s</p>
    <p style="margin:0 0 0 0;font-size:16px;line-height:1.7;color:#111827;word-break:break-word;">%s</p>
  </div>
</div>
</body>
</html>`, escapedSubject, escapedGreeting, escapedMessage)
}
