package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FormatReportDate renders a date the way the printed HSE forms do.
func FormatReportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// FormatReportDatePtr returns the formatted date for pointer values.
func FormatReportDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatReportDate(*t)
}

// FormatReportDateTime renders a timestamp for review blocks and audit
// trails on generated documents.
func FormatReportDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006 15:04")
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ReportFileName builds the download name for a generated document:
// <stem>_<id>_<yyyymmdd>.<ext>. The id is sanitized so provisional
// client ids and UUIDs are both safe in Content-Disposition headers.
func ReportFileName(stem, inspectionID string, at time.Time, ext string) string {
	id := unsafeFileChars.ReplaceAllString(inspectionID, "")
	if len(id) > 12 {
		id = id[:12]
	}
	if id == "" {
		id = "report"
	}
	return fmt.Sprintf("%s_%s_%s.%s", stem, id, at.Format("20060102"), strings.TrimPrefix(ext, "."))
}

// FormatFileSize renders attachment sizes for list endpoints.
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
