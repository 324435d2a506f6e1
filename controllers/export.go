package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"safety-inspection-api/services"
	"safety-inspection-api/utils"

	"github.com/gin-gonic/gin"
)

type exportRequest struct {
	Format            string                 `json:"format"`
	Data              map[string]interface{} `json:"data"`
	InspectionID      string                 `json:"inspectionId"`
	Title             string                 `json:"title"`
	InspectedBy       string                 `json:"inspectedBy"`
	Designation       string                 `json:"designation"`
	Location          string                 `json:"location"`
	Company           string                 `json:"company"`
	InspectionDate    string                 `json:"inspectionDate"`
	Signature         string                 `json:"signature"`
	ReviewerName      string                 `json:"reviewerName"`
	ReviewedAt        string                 `json:"reviewedAt"`
	ReviewerSignature string                 `json:"reviewerSignature"`
}

// ExportTemplate renders a report document straight from submitted form
// data, without touching stored inspections. The URL segment selects
// the type ("fire-extinguisher-template" and similar aliases accepted).
func ExportTemplate(c *gin.Context) {
	slug := c.Param("template")
	inspType, ok := utils.ParseTemplateSlug(slug)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown template type: %s", slug)})
		return
	}

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	format := services.FormatExcel
	switch strings.ToLower(strings.TrimSpace(req.Format)) {
	case "", "excel", "xlsx":
		format = services.FormatExcel
	case "pdf":
		format = services.FormatPDF
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format must be excel or pdf"})
		return
	}

	formData := req.Data
	if formData == nil {
		formData = map[string]interface{}{}
	}

	reportReq := &services.ReportRequest{
		Type:     inspType,
		FormData: formData,
		Meta: services.ReportMeta{
			InspectionID:   req.InspectionID,
			Title:          strings.TrimSpace(req.Title),
			Inspector:      strings.TrimSpace(req.InspectedBy),
			Designation:    strings.TrimSpace(req.Designation),
			Location:       strings.TrimSpace(req.Location),
			Company:        strings.TrimSpace(req.Company),
			InspectionDate: services.ParseClientTime(req.InspectionDate),
		},
		ReviewerName:       strings.TrimSpace(req.ReviewerName),
		InspectorSignature: req.Signature,
		ReviewerSignature:  req.ReviewerSignature,
		Format:             format,
	}
	if reviewedAt := services.ParseClientTime(req.ReviewedAt); reviewedAt != nil {
		reportReq.ReviewedAt = *reviewedAt
	}

	doc, err := services.NewExportService().Generate(reportReq)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownReportType),
			errors.Is(err, services.ErrUnsupportedFormat),
			errors.Is(err, services.ErrMissingReportField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate document"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
