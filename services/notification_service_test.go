package services

import (
	"context"
	"database/sql/driver"
	"regexp"
	"strings"
	"testing"

	"safety-inspection-api/models"
)

var (
	findTemplatePattern = regexp.MustCompile("SELECT \\* FROM `notification_templates` WHERE event_key = \\? AND send_to = \\? AND is_active = 1 ORDER BY `notification_templates`\\.`id` LIMIT \\?")
	pluckReviewersQuery = regexp.MustCompile("SELECT `user_id` FROM `users` WHERE role_id IN \\(\\?,\\?\\) AND delete_at IS NULL")
	insertNotification  = regexp.MustCompile("INSERT INTO `notifications` \\(`user_id`,`title`,`message`,`type`,`related_inspection_id`,`is_read`,`create_at`,`update_at`\\)")
)

func templateColumns() []string {
	return []string{"id", "event_key", "send_to", "title_template", "body_template", "is_active"}
}

func notificationFixture() *models.Inspection {
	reason := "Blurry photos"
	return &models.Inspection{
		ID:              "insp-9",
		Type:            models.TypeHSE,
		Status:          models.StatusPendingReview,
		Title:           "Walkway check",
		InspectorID:     7,
		InspectedBy:     "Alex Tan",
		Location:        "Warehouse B",
		Company:         "Acme Logistics",
		RejectionReason: &reason,
	}
}

func TestBuildMessageUsesStoredTemplate(t *testing.T) {
	ClearTemplateCache()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: findTemplatePattern,
			args:    []driver.Value{"inspection_approved", "inspector", int64(1)},
			columns: templateColumns(),
			rows: [][]driver.Value{{
				int64(3), "inspection_approved", "inspector",
				"ALERT: {{title}}", "{{reviewer}} signed off. {{unknown}} {{reason}}", true,
			}},
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &NotificationService{db: gormDB}
	data := placeholderData(notificationFixture(), "Sarah Chen")

	msg, err := svc.buildMessage(models.EventInspectionApproved, models.SendToInspector, data)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if msg.Title != "ALERT: Walkway check" {
		t.Fatalf("title = %q", msg.Title)
	}
	if msg.Body != "Sarah Chen signed off. {{unknown}} Blurry photos" {
		t.Fatalf("body = %q", msg.Body)
	}

	// Second build must come from the cache, not the database.
	if _, err := svc.buildMessage(models.EventInspectionApproved, models.SendToInspector, data); err != nil {
		t.Fatalf("cached build failed: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestBuildMessageFallsBackToDefaults(t *testing.T) {
	ClearTemplateCache()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: findTemplatePattern,
			args:    []driver.Value{"inspection_rejected", "inspector", int64(1)},
			columns: templateColumns(),
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &NotificationService{db: gormDB}
	data := placeholderData(notificationFixture(), "Sarah Chen")

	msg, err := svc.buildMessage(models.EventInspectionRejected, models.SendToInspector, data)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if msg.Title != "Inspection rejected: Walkway check" {
		t.Fatalf("title = %q", msg.Title)
	}
	if msg.Body != "Sarah Chen rejected your HSE Inspection \"Walkway check\". Reason: Blurry photos" {
		t.Fatalf("body = %q", msg.Body)
	}

	// The miss is cached as well.
	if _, err := svc.buildMessage(models.EventInspectionRejected, models.SendToInspector, data); err != nil {
		t.Fatalf("cached build failed: %v", err)
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestBuildMessageFailsWithoutAnyTemplate(t *testing.T) {
	ClearTemplateCache()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: findTemplatePattern,
			args:    []driver.Value{"inspection_escalated", "inspector", int64(1)},
			columns: templateColumns(),
		},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &NotificationService{db: gormDB}
	if _, err := svc.buildMessage("inspection_escalated", models.SendToInspector, nil); err == nil {
		t.Fatalf("expected missing template error")
	}

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyInspectionEventStoresRowPerReviewer(t *testing.T) {
	ClearTemplateCache()
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: pluckReviewersQuery,
			args:    []driver.Value{int64(2), int64(3)},
			columns: []string{"user_id"},
			rows:    [][]driver.Value{{int64(4)}, {int64(5)}},
		},
		{
			kind:    kindQuery,
			pattern: findTemplatePattern,
			args:    []driver.Value{"inspection_submitted", "reviewers", int64(1)},
			columns: templateColumns(),
		},
		{kind: kindExec, pattern: insertNotification, result: scriptedResult{lastInsertID: 31, rowsAffected: 1}},
		{kind: kindExec, pattern: insertNotification, result: scriptedResult{lastInsertID: 32, rowsAffected: 1}},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := &NotificationService{db: gormDB}
	svc.NotifyInspectionEvent(context.Background(), models.EventInspectionSubmitted, notificationFixture(), "Alex Tan")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("%v", err)
	}
}

func TestNotifyInspectionEventSkipsEmptyAudience(t *testing.T) {
	ClearTemplateCache()
	gormDB, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := &NotificationService{db: gormDB}

	// Unknown events are dropped before any lookup.
	svc.NotifyInspectionEvent(context.Background(), "inspection_archived", notificationFixture(), "Alex Tan")

	// Approval of an ownerless record has nobody to notify.
	orphan := notificationFixture()
	orphan.InspectorID = 0
	svc.NotifyInspectionEvent(context.Background(), models.EventInspectionApproved, orphan, "Sarah Chen")

	if err := state.verifyComplete(); err != nil {
		t.Fatalf("database must not be touched: %v", err)
	}
}

func TestDefaultTemplate(t *testing.T) {
	title, body, ok := DefaultTemplate(models.EventInspectionApproved, models.SendToInspector)
	if !ok || title == "" || body == "" {
		t.Fatalf("expected built-in approved template, got ok=%v", ok)
	}
	if _, _, ok := DefaultTemplate(models.EventInspectionApproved, models.SendToReviewers); ok {
		t.Fatalf("approval has no reviewer audience")
	}
}

func TestNotificationTypeClassification(t *testing.T) {
	if got := notificationType(models.EventInspectionApproved); got != "success" {
		t.Errorf("approved = %q, want success", got)
	}
	if got := notificationType(models.EventInspectionRejected); got != "warning" {
		t.Errorf("rejected = %q, want warning", got)
	}
	if got := notificationType(models.EventInspectionSubmitted); got != "info" {
		t.Errorf("submitted = %q, want info", got)
	}
}

func TestBuildEmailHTMLEscapesContent(t *testing.T) {
	html := buildEmailHTML("Inspection <approved>", "Alex & Co", "line one\nline <two>")
	if strings.Contains(html, "<approved>") || strings.Contains(html, "<two>") {
		t.Fatalf("markup must be escaped:\n%s", html)
	}
	if !strings.Contains(html, "Dear Alex &amp; Co,") {
		t.Fatalf("greeting missing or unescaped:\n%s", html)
	}
	if !strings.Contains(html, "line one<br />line &lt;two&gt;") {
		t.Fatalf("newlines must become breaks:\n%s", html)
	}
}
