package utils

import (
	"testing"
	"time"
)

func TestFormatReportDate(t *testing.T) {
	at := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)
	if got := FormatReportDate(at); got != "14/03/2025" {
		t.Errorf("FormatReportDate = %q", got)
	}
	if got := FormatReportDate(time.Time{}); got != "" {
		t.Errorf("zero time must render empty, got %q", got)
	}
	if got := FormatReportDatePtr(nil); got != "" {
		t.Errorf("nil pointer must render empty, got %q", got)
	}
	if got := FormatReportDateTime(at); got != "14/03/2025 10:30" {
		t.Errorf("FormatReportDateTime = %q", got)
	}
}

func TestReportFileName(t *testing.T) {
	at := time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

	if got := ReportFileName("HSE_Inspection", "insp-1", at, "xlsx"); got != "HSE_Inspection_insp-1_20250314.xlsx" {
		t.Errorf("file name = %q", got)
	}
	// UUIDs are truncated to keep the download name short.
	if got := ReportFileName("HSE_Inspection", "4be0cbd2-94d8-4ef2-9f38-1f0f6a90ad21", at, ".pdf"); got != "HSE_Inspection_4be0cbd2-94d_20250314.pdf" {
		t.Errorf("uuid file name = %q", got)
	}
	// Unsafe characters vanish; a fully unsafe id falls back.
	if got := ReportFileName("Manhours_Report", "../;", at, "xlsx"); got != "Manhours_Report_.._20250314.xlsx" {
		t.Errorf("sanitized file name = %q", got)
	}
	if got := ReportFileName("Manhours_Report", "///", at, "xlsx"); got != "Manhours_Report_report_20250314.xlsx" {
		t.Errorf("fallback file name = %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
		1536:            "1.5 KB",
	}
	for in, want := range cases {
		if got := FormatFileSize(in); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", in, got, want)
		}
	}
}
