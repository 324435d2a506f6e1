package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"safety-inspection-api/models"
	"safety-inspection-api/utils"
)

func sampleFormData(t models.InspectionType) map[string]interface{} {
	switch t {
	case models.TypeHSE:
		return map[string]interface{}{
			"items": []interface{}{
				map[string]interface{}{"category": "Housekeeping", "item": "Walkways clear", "status": "ok", "remarks": ""},
				map[string]interface{}{"category": "PPE", "item": "Helmets worn", "status": "not_ok", "remarks": "two visitors without helmets"},
			},
		}
	case models.TypeFireExtinguisher:
		return map[string]interface{}{
			"extinguishers": []interface{}{
				map[string]interface{}{
					"location": "Dock 4", "serialNo": "FE-102", "type": "ABC", "capacity": "6kg",
					"pressure": "ok", "hose": "ok", "pin": "ok", "body": "ok",
					"expiryDate": "2026-01-01", "remarks": "",
				},
			},
		}
	case models.TypeFirstAid:
		return map[string]interface{}{
			"kits": []interface{}{
				map[string]interface{}{"location": "Site office", "item": "Bandages", "required": 10, "available": 8, "expiryDate": "2026-05-01", "remarks": "restock"},
			},
		}
	case models.TypeHSEObservation:
		return map[string]interface{}{
			"observations": []interface{}{
				map[string]interface{}{"description": "Oil spill near dock gate", "category": "Housekeeping", "severity": "medium", "action": "Cleaned and cordoned", "status": "closed"},
			},
		}
	case models.TypeManhours:
		return map[string]interface{}{"month": "March 2025", "totalWorkers": 42, "totalManhours": 8400, "incidents": 0}
	}
	return nil
}

func sampleReportRequest(inspType models.InspectionType, format ReportFormat) *ReportRequest {
	inspectionDate := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	return &ReportRequest{
		Type:     inspType,
		FormData: sampleFormData(inspType),
		Meta: ReportMeta{
			InspectionID:   "insp-1",
			Title:          "Walkway check",
			Inspector:      "Alex Tan",
			Designation:    "HSE Officer",
			Location:       "Warehouse B",
			Company:        "Acme Logistics",
			InspectionDate: &inspectionDate,
		},
		ReviewerName:       "Sarah Chen",
		ReviewedAt:         reviewTestTime,
		ReviewerSignature:  testSignaturePNG,
		InspectorSignature: testSignaturePNG,
		Format:             format,
	}
}

func TestGenerateExcelIsDeterministic(t *testing.T) {
	svc := NewExportService()

	first, err := svc.Generate(sampleReportRequest(models.TypeHSE, FormatExcel))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := svc.Generate(sampleReportRequest(models.TypeHSE, FormatExcel))
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	if first.FileName != "HSE_Inspection_insp-1_20250314.xlsx" {
		t.Fatalf("file name = %q", first.FileName)
	}
	if first.ContentType != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", first.ContentType)
	}
	if !bytes.HasPrefix(first.Data, []byte("PK")) {
		t.Fatalf("workbook is not a zip archive")
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatalf("identical requests produced different workbooks (%d vs %d bytes)", len(first.Data), len(second.Data))
	}
}

func TestGeneratePDFIsDeterministic(t *testing.T) {
	svc := NewExportService()

	first, err := svc.Generate(sampleReportRequest(models.TypeHSE, FormatPDF))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	second, err := svc.Generate(sampleReportRequest(models.TypeHSE, FormatPDF))
	if err != nil {
		t.Fatalf("second generate failed: %v", err)
	}

	if first.FileName != "HSE_Inspection_insp-1_20250314.pdf" {
		t.Fatalf("file name = %q", first.FileName)
	}
	if first.ContentType != "application/pdf" {
		t.Fatalf("content type = %q", first.ContentType)
	}
	if !bytes.HasPrefix(first.Data, []byte("%PDF")) {
		t.Fatalf("output is not a pdf")
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Fatalf("identical requests produced different pdfs (%d vs %d bytes)", len(first.Data), len(second.Data))
	}
}

func TestGenerateRendersEveryTemplate(t *testing.T) {
	svc := NewExportService()
	for _, inspType := range utils.AllInspectionTypes() {
		tmpl, ok := TemplateFor(inspType)
		if !ok {
			t.Fatalf("no template registered for %s", inspType)
		}
		for _, format := range []ReportFormat{FormatExcel, FormatPDF} {
			doc, err := svc.Generate(sampleReportRequest(inspType, format))
			if err != nil {
				t.Fatalf("generate %s/%s failed: %v", inspType, format, err)
			}
			if len(doc.Data) == 0 {
				t.Fatalf("generate %s/%s produced no bytes", inspType, format)
			}
			if !strings.HasPrefix(doc.FileName, tmpl.FileStem+"_") {
				t.Fatalf("file name %q does not carry stem %q", doc.FileName, tmpl.FileStem)
			}
		}
	}
}

func TestGenerateDefaultsToExcel(t *testing.T) {
	svc := NewExportService()
	doc, err := svc.Generate(sampleReportRequest(models.TypeManhours, ""))
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.HasSuffix(doc.FileName, ".xlsx") {
		t.Fatalf("expected workbook by default, got %q", doc.FileName)
	}
}

func TestGenerateRejectsUnknownType(t *testing.T) {
	svc := NewExportService()
	_, err := svc.Generate(&ReportRequest{Type: "boiler", FormData: map[string]interface{}{}})
	if !errors.Is(err, ErrUnknownReportType) {
		t.Fatalf("expected unknown type error, got %v", err)
	}
}

func TestGenerateRejectsUnsupportedFormat(t *testing.T) {
	svc := NewExportService()
	req := sampleReportRequest(models.TypeHSE, ReportFormat("csv"))
	_, err := svc.Generate(req)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestGenerateDemandsRequiredFields(t *testing.T) {
	svc := NewExportService()

	cases := []struct {
		name     string
		inspType models.InspectionType
		formData map[string]interface{}
	}{
		{"absent", models.TypeHSE, map[string]interface{}{}},
		{"nil value", models.TypeHSE, map[string]interface{}{"items": nil}},
		{"empty list", models.TypeHSE, map[string]interface{}{"items": []interface{}{}}},
		{"empty string", models.TypeManhours, map[string]interface{}{"month": "", "totalWorkers": 42, "totalManhours": 8400}},
	}
	for _, tc := range cases {
		req := sampleReportRequest(tc.inspType, FormatExcel)
		req.FormData = tc.formData
		if _, err := svc.Generate(req); !errors.Is(err, ErrMissingReportField) {
			t.Errorf("%s: expected missing field error, got %v", tc.name, err)
		}
	}
}

func TestGenerateFallsBackToInspectionDate(t *testing.T) {
	svc := NewExportService()
	req := sampleReportRequest(models.TypeHSE, FormatExcel)
	req.ReviewedAt = time.Time{}

	doc, err := svc.Generate(req)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if doc.FileName != "HSE_Inspection_insp-1_20250310.xlsx" {
		t.Fatalf("file name must use the inspection date, got %q", doc.FileName)
	}
}

func TestReportRequestFor(t *testing.T) {
	reviewedBy := 5
	reviewerName := "Sarah Chen"
	reviewerSig := testSignaturePNG
	inspectionDate := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

	insp := &models.Inspection{
		ID:                "insp-1",
		Type:              models.TypeHSE,
		Status:            models.StatusApproved,
		Title:             "Walkway check",
		InspectedBy:       "Alex Tan",
		Designation:       "HSE Officer",
		Location:          "Warehouse B",
		Company:           "Acme Logistics",
		InspectionDate:    &inspectionDate,
		FormData:          []byte(hseFormJSON),
		Signature:         testSignaturePNG,
		ReviewedBy:        &reviewedBy,
		ReviewerName:      &reviewerName,
		ReviewedAt:        &reviewTestTime,
		ReviewerSignature: &reviewerSig,
	}

	req, err := ReportRequestFor(insp, FormatPDF)
	if err != nil {
		t.Fatalf("request mapping failed: %v", err)
	}
	if req.Type != models.TypeHSE || req.Format != FormatPDF {
		t.Fatalf("type/format not carried: %s %s", req.Type, req.Format)
	}
	if req.Meta.InspectionID != "insp-1" || req.Meta.Company != "Acme Logistics" {
		t.Fatalf("meta not carried: %+v", req.Meta)
	}
	if req.ReviewerName != "Sarah Chen" || !req.ReviewedAt.Equal(reviewTestTime) {
		t.Fatalf("reviewer fields not carried: %q %v", req.ReviewerName, req.ReviewedAt)
	}
	if len(req.FormData["items"].([]interface{})) != 1 {
		t.Fatalf("form data not decoded: %+v", req.FormData)
	}

	unreviewed := &models.Inspection{
		ID:       "insp-2",
		Type:     models.TypeHSE,
		FormData: []byte(hseFormJSON),
	}
	req, err = ReportRequestFor(unreviewed, FormatExcel)
	if err != nil {
		t.Fatalf("request mapping failed: %v", err)
	}
	if req.ReviewerName != "" || !req.ReviewedAt.IsZero() || req.ReviewerSignature != "" {
		t.Fatalf("unreviewed record must map to zero reviewer fields: %+v", req)
	}

	broken := &models.Inspection{ID: "insp-3", Type: models.TypeHSE, FormData: []byte("{not json")}
	if _, err := ReportRequestFor(broken, FormatExcel); err == nil {
		t.Fatalf("corrupt form data must fail")
	}
}
