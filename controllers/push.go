package controllers

import (
	"errors"
	"net/http"
	"time"

	"safety-inspection-api/config"
	"safety-inspection-api/middleware"
	"safety-inspection-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type pushSubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

// GetPushPublicKey returns the VAPID public key browsers need to
// subscribe. Public, no auth.
func GetPushPublicKey(c *gin.Context) {
	if !config.WebPushEnabled() {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "publicKey": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"enabled": true, "publicKey": config.VAPIDPublicKey})
}

// SubscribePush registers or refreshes a push subscription for the
// caller. Endpoints are unique, so re-subscribing moves the endpoint to
// the current user and refreshes its keys.
func SubscribePush(c *gin.Context) {
	var req pushSubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription payload"})
		return
	}

	userID := uint(middleware.CurrentUserID(c))
	now := time.Now()

	var agent *string
	if ua := c.GetHeader("User-Agent"); ua != "" {
		agent = &ua
	}

	var existing models.PushSubscription
	err := config.DB.Where("endpoint = ?", req.Endpoint).First(&existing).Error
	switch {
	case err == nil:
		if err := config.DB.Model(&models.PushSubscription{}).
			Where("subscription_id = ?", existing.SubscriptionID).
			Updates(map[string]interface{}{
				"user_id":    userID,
				"p256dh":     req.Keys.P256dh,
				"auth":       req.Keys.Auth,
				"user_agent": agent,
				"update_at":  now,
			}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		sub := models.PushSubscription{
			UserID:    userID,
			Endpoint:  req.Endpoint,
			P256dh:    req.Keys.P256dh,
			Auth:      req.Keys.Auth,
			UserAgent: agent,
			CreateAt:  now,
			UpdateAt:  &now,
		}
		if err := config.DB.Create(&sub).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// UnsubscribePush removes the caller's subscription for one endpoint.
func UnsubscribePush(c *gin.Context) {
	var req struct {
		Endpoint string `json:"endpoint" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Endpoint is required"})
		return
	}

	userID := uint(middleware.CurrentUserID(c))
	if err := config.DB.
		Where("endpoint = ? AND user_id = ?", req.Endpoint, userID).
		Delete(&models.PushSubscription{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
