package controllers

import (
	"net/http"

	"safety-inspection-api/utils"

	"github.com/gin-gonic/gin"
)

// GetInspectionTypes enumerates the inspection types with their display
// labels and the cache keys legacy offline clients still use.
func GetInspectionTypes(c *gin.Context) {
	types := utils.AllInspectionTypes()
	entries := make([]gin.H, 0, len(types))
	for _, t := range types {
		entries = append(entries, gin.H{
			"type":        t,
			"label":       t.Label(),
			"storage_key": utils.StorageKeyFor(t),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"types":   entries,
	})
}
