package controllers

import (
	"net/http"
	"time"

	"safety-inspection-api/config"
	"safety-inspection-api/middleware"
	"safety-inspection-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDashboardStats returns dashboard statistics. Reviewers see global
// numbers; inspectors see the same shape scoped to their own records.
func GetDashboardStats(c *gin.Context) {
	var stats map[string]interface{}
	if middleware.IsReviewer(c) {
		stats = buildDashboard(0)
	} else {
		stats = buildDashboard(middleware.CurrentUserID(c))
	}

	if stats == nil {
		stats = make(map[string]interface{})
	}
	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}

// buildDashboard aggregates inspection counts. inspectorID 0 means all
// records.
func buildDashboard(inspectorID int) map[string]interface{} {
	stats := make(map[string]interface{})
	now := time.Now()

	scoped := func() *gorm.DB {
		q := config.DB.Table("inspections").Where("delete_at IS NULL")
		if inspectorID > 0 {
			q = q.Where("inspector_id = ?", inspectorID)
		}
		return q
	}

	overview := make(map[string]interface{})

	var total int64
	scoped().Count(&total)
	overview["total_inspections"] = total

	// Status breakdown
	var statusRows []struct {
		Status string
		Total  int64
	}
	scoped().Select("status, COUNT(*) AS total").Group("status").Scan(&statusRows)
	byStatus := make(map[string]int64, len(statusRows))
	for _, row := range statusRows {
		byStatus[row.Status] = row.Total
	}
	overview["draft_count"] = byStatus[string(models.StatusDraft)]
	overview["pending_count"] = byStatus[string(models.StatusPendingReview)]
	overview["approved_count"] = byStatus[string(models.StatusApproved)]
	overview["rejected_count"] = byStatus[string(models.StatusRejected)]
	overview["completed_count"] = byStatus[string(models.StatusCompleted)]

	// Review activity for the current month
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var approvedThisMonth int64
	scoped().
		Where("status IN ? AND reviewed_at >= ?",
			[]string{string(models.StatusApproved), string(models.StatusCompleted)}, monthStart).
		Count(&approvedThisMonth)
	overview["approved_this_month"] = approvedThisMonth

	var rejectedThisMonth int64
	scoped().
		Where("status = ? AND reviewed_at >= ?", string(models.StatusRejected), monthStart).
		Count(&rejectedThisMonth)
	overview["rejected_this_month"] = rejectedThisMonth

	// Man-hours reported for the current year, read out of the stored
	// form payload.
	var manhours float64
	scoped().
		Where("inspection_type = ?", string(models.TypeManhours)).
		Where("YEAR(COALESCE(inspection_date, create_at)) = ?", now.Year()).
		Select("COALESCE(SUM(CAST(JSON_EXTRACT(form_data, '$.totalManhours') AS DECIMAL(14,1))), 0)").
		Scan(&manhours)
	overview["manhours_year_total"] = manhours
	overview["current_year"] = now.Year()

	stats["overview"] = overview

	// Type breakdown
	var typeRows []struct {
		InspectionType string
		Total          int64
	}
	scoped().Select("inspection_type, COUNT(*) AS total").Group("inspection_type").Scan(&typeRows)
	byType := make([]map[string]interface{}, 0, len(typeRows))
	for _, row := range typeRows {
		byType = append(byType, map[string]interface{}{
			"type":  row.InspectionType,
			"label": models.InspectionType(row.InspectionType).Label(),
			"count": row.Total,
		})
	}
	stats["by_type"] = byType

	// Most recent records
	var recent []map[string]interface{}
	scoped().
		Select("inspection_id, inspection_type, status, title, inspected_by, location, submitted_at, create_at").
		Order("create_at DESC").
		Limit(5).
		Scan(&recent)
	stats["recent_inspections"] = recent

	stats["monthly_stats"] = monthlyInspectionStats(inspectorID, 6)

	return stats
}

// monthlyInspectionStats returns per-month submission and review counts
// for the trailing window.
func monthlyInspectionStats(inspectorID int, months int) []map[string]interface{} {
	var monthlyData []map[string]interface{}

	for i := months - 1; i >= 0; i-- {
		monthStart := time.Now().AddDate(0, -i, 0).Format("2006-01")
		monthEnd := time.Now().AddDate(0, -i+1, 0).Format("2006-01")

		row := make(map[string]interface{})
		q := config.DB.Table("inspections").
			Select(`COUNT(*) as submitted,
                                COUNT(CASE WHEN status = 'approved' THEN 1 END) as approved,
                                COUNT(CASE WHEN status = 'rejected' THEN 1 END) as rejected,
                                COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed`).
			Where("submitted_at >= ? AND submitted_at < ? AND delete_at IS NULL",
				monthStart+"-01", monthEnd+"-01")
		if inspectorID > 0 {
			q = q.Where("inspector_id = ?", inspectorID)
		}
		q.Scan(&row)

		row["month"] = monthStart
		monthlyData = append(monthlyData, row)
	}

	return monthlyData
}
