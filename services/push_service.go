package services

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"safety-inspection-api/config"
	"safety-inspection-api/models"

	webpush "github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"
)

// PushService delivers web push messages to every browser a user has
// registered. Sending is disabled when VAPID keys are not configured.
type PushService struct {
	db *gorm.DB
}

func NewPushService(db *gorm.DB) *PushService {
	if db == nil {
		db = config.DB
	}
	return &PushService{db: db}
}

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *PushService) SendToUser(ctx context.Context, userID uint, title, body string) {
	if !config.WebPushEnabled() {
		return
	}

	var subs []models.PushSubscription
	if err := s.db.Where("user_id = ?", userID).Find(&subs).Error; err != nil {
		log.Printf("failed to load push subscriptions for user %d: %v", userID, err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body})
	if err != nil {
		log.Printf("failed to encode push payload: %v", err)
		return
	}
	for i := range subs {
		s.send(ctx, &subs[i], payload)
	}
}

func (s *PushService) send(ctx context.Context, sub *models.PushSubscription, payload []byte) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, &webpush.Options{
		Subscriber:      config.VAPIDSubject,
		VAPIDPublicKey:  config.VAPIDPublicKey,
		VAPIDPrivateKey: config.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		log.Printf("push send failed for subscription %d: %v", sub.SubscriptionID, err)
		return
	}
	defer resp.Body.Close()

	// Endpoint is gone; keeping the row would fail every future send.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		if err := s.db.Delete(&models.PushSubscription{}, sub.SubscriptionID).Error; err != nil {
			log.Printf("failed to prune dead subscription %d: %v", sub.SubscriptionID, err)
		}
		return
	}
	if resp.StatusCode >= 400 {
		log.Printf("push endpoint returned %d for subscription %d", resp.StatusCode, sub.SubscriptionID)
	}
}
