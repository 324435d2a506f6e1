package controllers

import (
	"errors"
	"net/http"

	"safety-inspection-api/services"

	"github.com/gin-gonic/gin"
)

// DetectExtinguisherComponents proxies inspection photos to the AI
// detection sidecar and returns per-step detections.
func DetectExtinguisherComponents(c *gin.Context) {
	var req services.DetectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid detection payload"})
		return
	}

	svc := services.NewDetectionService()
	resp, err := svc.Detect(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDetectionUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI detection is not configured"})
		case errors.Is(err, services.ErrDetectionUpstream):
			c.JSON(http.StatusBadGateway, gin.H{"error": "AI detection service failed"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetDetectionHealth reports the detection sidecar status.
func GetDetectionHealth(c *gin.Context) {
	svc := services.NewDetectionService()
	c.JSON(http.StatusOK, svc.Health(c.Request.Context()))
}
