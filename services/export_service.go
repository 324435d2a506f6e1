package services

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"safety-inspection-api/models"
	"safety-inspection-api/utils"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// ReportFormat selects the output encoding of a generated document.
type ReportFormat string

const (
	FormatExcel ReportFormat = "excel"
	FormatPDF   ReportFormat = "pdf"
)

func (f ReportFormat) IsValid() bool {
	return f == FormatExcel || f == FormatPDF
}

func (f ReportFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

func (f ReportFormat) Extension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	default:
		return "xlsx"
	}
}

var (
	ErrUnknownReportType  = errors.New("unknown report type")
	ErrUnsupportedFormat  = errors.New("unsupported report format")
	ErrMissingReportField = errors.New("missing required field")
)

// ReportMeta carries the descriptive header fields of a report.
type ReportMeta struct {
	InspectionID   string
	Title          string
	Inspector      string
	Designation    string
	Location       string
	Company        string
	InspectionDate *time.Time
}

// ReportRequest is the full input of the generator. Output is a pure
// function of this struct: identical requests yield identical bytes
// (document timestamps derive from ReviewedAt, never the wall clock).
type ReportRequest struct {
	Type               models.InspectionType
	FormData           map[string]interface{}
	Meta               ReportMeta
	ReviewerName       string
	ReviewedAt         time.Time
	ReviewerSignature  string
	InspectorSignature string
	Format             ReportFormat
}

// GeneratedDocument is the produced buffer plus download metadata.
type GeneratedDocument struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ReportTemplate is the fixed per-type configuration record: which form
// fields must be present and how the body of the document is laid out.
type ReportTemplate struct {
	Title          string
	SheetName      string
	FileStem       string
	RequiredFields []string
	tableWidth     int
	buildExcel     func(x *excelSheet, row int, req *ReportRequest) int
	buildPDF       func(pdf *fpdf.Fpdf, req *ReportRequest)
}

var reportTemplates = map[models.InspectionType]ReportTemplate{
	models.TypeHSE: {
		Title:          "HSE INSPECTION CHECKLIST",
		SheetName:      "HSE Inspection",
		FileStem:       "HSE_Inspection",
		RequiredFields: []string{"items"},
		tableWidth:     5,
		buildExcel:     buildHSEExcelBody,
		buildPDF:       buildHSEPDFBody,
	},
	models.TypeFireExtinguisher: {
		Title:          "FIRE EXTINGUISHER INSPECTION",
		SheetName:      "Fire Extinguishers",
		FileStem:       "Fire_Extinguisher_Inspection",
		RequiredFields: []string{"extinguishers"},
		tableWidth:     12,
		buildExcel:     buildFireExtinguisherExcelBody,
		buildPDF:       buildFireExtinguisherPDFBody,
	},
	models.TypeFirstAid: {
		Title:          "FIRST AID KIT INSPECTION",
		SheetName:      "First Aid",
		FileStem:       "First_Aid_Inspection",
		RequiredFields: []string{"kits"},
		tableWidth:     6,
		buildExcel:     buildFirstAidExcelBody,
		buildPDF:       buildFirstAidPDFBody,
	},
	models.TypeHSEObservation: {
		Title:          "HSE OBSERVATION REPORT",
		SheetName:      "Observations",
		FileStem:       "HSE_Observation",
		RequiredFields: []string{"observations"},
		tableWidth:     6,
		buildExcel:     buildObservationExcelBody,
		buildPDF:       buildObservationPDFBody,
	},
	models.TypeManhours: {
		Title:          "MANHOURS REPORT",
		SheetName:      "Manhours",
		FileStem:       "Manhours_Report",
		RequiredFields: []string{"month", "totalWorkers", "totalManhours"},
		tableWidth:     4,
		buildExcel:     buildManhoursExcelBody,
		buildPDF:       buildManhoursPDFBody,
	},
}

// TemplateFor exposes the per-type configuration (used by the export
// endpoint to validate payloads before rendering).
func TemplateFor(t models.InspectionType) (ReportTemplate, bool) {
	tmpl, ok := reportTemplates[t]
	return tmpl, ok
}

// ReportRequestFor maps a stored inspection onto a render request.
func ReportRequestFor(insp *models.Inspection, format ReportFormat) (*ReportRequest, error) {
	formData, err := insp.FormDataMap()
	if err != nil {
		return nil, err
	}

	req := &ReportRequest{
		Type:     insp.Type,
		FormData: formData,
		Meta: ReportMeta{
			InspectionID:   insp.ID,
			Title:          insp.DisplayTitle(),
			Inspector:      insp.InspectedBy,
			Designation:    insp.Designation,
			Location:       insp.Location,
			Company:        insp.Company,
			InspectionDate: insp.InspectionDate,
		},
		InspectorSignature: insp.Signature,
		Format:             format,
	}
	if insp.ReviewerName != nil {
		req.ReviewerName = *insp.ReviewerName
	}
	if insp.ReviewedAt != nil {
		req.ReviewedAt = *insp.ReviewedAt
	}
	if insp.ReviewerSignature != nil {
		req.ReviewerSignature = *insp.ReviewerSignature
	}
	return req, nil
}

type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Generate renders the requested document. Validation failures and
// unknown types are reported before any rendering work happens.
func (s *ExportService) Generate(req *ReportRequest) (*GeneratedDocument, error) {
	tmpl, ok := reportTemplates[req.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReportType, req.Type)
	}
	if req.Format == "" {
		req.Format = FormatExcel
	}
	if !req.Format.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Format)
	}
	if err := checkRequiredFields(tmpl, req.FormData); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	switch req.Format {
	case FormatPDF:
		data, err = s.renderPDF(tmpl, req)
	default:
		data, err = s.renderExcel(tmpl, req)
	}
	if err != nil {
		return nil, err
	}

	docDate := req.ReviewedAt
	if docDate.IsZero() {
		if req.Meta.InspectionDate != nil {
			docDate = *req.Meta.InspectionDate
		} else {
			docDate = time.Now()
		}
	}

	return &GeneratedDocument{
		FileName:    utils.ReportFileName(tmpl.FileStem, req.Meta.InspectionID, docDate, req.Format.Extension()),
		ContentType: req.Format.ContentType(),
		Data:        data,
	}, nil
}

func checkRequiredFields(tmpl ReportTemplate, formData map[string]interface{}) error {
	for _, field := range tmpl.RequiredFields {
		value, ok := formData[field]
		if !ok || value == nil {
			return fmt.Errorf("%w: %s", ErrMissingReportField, field)
		}
		switch v := value.(type) {
		case string:
			if v == "" {
				return fmt.Errorf("%w: %s", ErrMissingReportField, field)
			}
		case []interface{}:
			if len(v) == 0 {
				return fmt.Errorf("%w: %s", ErrMissingReportField, field)
			}
		}
	}
	return nil
}

// excelSheet wraps an excelize file with error-accumulating helpers so
// body builders stay linear.
type excelSheet struct {
	f      *excelize.File
	sheet  string
	err    error
	styles excelStyles
}

type excelStyles struct {
	title      int
	label      int
	header     int
	cell       int
	cellCenter int
}

func (x *excelSheet) set(col, row int, value interface{}, style int) {
	if x.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		x.err = err
		return
	}
	if err := x.f.SetCellValue(x.sheet, cell, value); err != nil {
		x.err = err
		return
	}
	if style != 0 {
		x.err = x.f.SetCellStyle(x.sheet, cell, cell, style)
	}
}

func (x *excelSheet) merge(col1, row1, col2, row2 int) {
	if x.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		x.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		x.err = err
		return
	}
	x.err = x.f.MergeCell(x.sheet, from, to)
}

func (x *excelSheet) styleRange(col1, row1, col2, row2, style int) {
	if x.err != nil {
		return
	}
	from, err := excelize.CoordinatesToCellName(col1, row1)
	if err != nil {
		x.err = err
		return
	}
	to, err := excelize.CoordinatesToCellName(col2, row2)
	if err != nil {
		x.err = err
		return
	}
	x.err = x.f.SetCellStyle(x.sheet, from, to, style)
}

func (x *excelSheet) colWidth(col1, col2 int, width float64) {
	if x.err != nil {
		return
	}
	from, err := excelize.ColumnNumberToName(col1)
	if err != nil {
		x.err = err
		return
	}
	to, err := excelize.ColumnNumberToName(col2)
	if err != nil {
		x.err = err
		return
	}
	x.err = x.f.SetColWidth(x.sheet, from, to, width)
}

func (x *excelSheet) rowHeight(row int, height float64) {
	if x.err != nil {
		return
	}
	x.err = x.f.SetRowHeight(x.sheet, row, height)
}

func (x *excelSheet) picture(col, row int, png []byte) {
	if x.err != nil || len(png) == 0 {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		x.err = err
		return
	}
	x.err = x.f.AddPictureFromBytes(x.sheet, cell, &excelize.Picture{
		Extension: ".png",
		File:      png,
		Format:    &excelize.GraphicOptions{OffsetX: 4, OffsetY: 2},
	})
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	borders := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	if styles.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return styles, err
	}
	if styles.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
	}); err != nil {
		return styles, err
	}
	if styles.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9D9D9"}, Pattern: 1},
		Border:    borders,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return styles, err
	}
	if styles.cell, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Border:    borders,
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	}); err != nil {
		return styles, err
	}
	if styles.cellCenter, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Border:    borders,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "top"},
	}); err != nil {
		return styles, err
	}

	return styles, nil
}

func (s *ExportService) renderExcel(tmpl ReportTemplate, req *ReportRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const defaultSheet = "Sheet1"
	if err := f.SetSheetName(defaultSheet, tmpl.SheetName); err != nil {
		return nil, err
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}
	x := &excelSheet{f: f, sheet: tmpl.SheetName, styles: styles}

	row := writeExcelHeader(x, tmpl, req)
	row = tmpl.buildExcel(x, row, req)
	writeExcelSignatures(x, row+1, tmpl.tableWidth, req)

	if x.err != nil {
		return nil, x.err
	}

	// Pin document properties to the review timestamp so identical
	// requests produce identical bytes.
	stamp := req.ReviewedAt
	if stamp.IsZero() && req.Meta.InspectionDate != nil {
		stamp = *req.Meta.InspectionDate
	}
	props := &excelize.DocProperties{
		Creator:        "Safety Inspection System",
		Title:          tmpl.Title,
		Subject:        req.Meta.Title,
		LastModifiedBy: req.ReviewerName,
	}
	if !stamp.IsZero() {
		props.Created = stamp.UTC().Format(time.RFC3339)
		props.Modified = stamp.UTC().Format(time.RFC3339)
	}
	if err := f.SetDocProps(props); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeExcelHeader(x *excelSheet, tmpl ReportTemplate, req *ReportRequest) int {
	width := tmpl.tableWidth

	x.merge(1, 1, width, 1)
	x.set(1, 1, tmpl.Title, x.styles.title)
	x.rowHeight(1, 24)

	row := 3
	meta := []struct {
		label string
		value string
	}{
		{"Company", req.Meta.Company},
		{"Location", req.Meta.Location},
		{"Inspection Date", utils.FormatReportDatePtr(req.Meta.InspectionDate)},
		{"Inspected By", req.Meta.Inspector},
		{"Designation", req.Meta.Designation},
	}
	for _, item := range meta {
		if item.value == "" {
			continue
		}
		x.set(1, row, item.label, x.styles.label)
		x.merge(2, row, width, row)
		x.set(2, row, item.value, 0)
		row++
	}

	return row + 1
}

func writeExcelSignatures(x *excelSheet, row, width int, req *ReportRequest) {
	sigCol := width/2 + 1
	if sigCol < 3 {
		sigCol = 3
	}

	x.set(1, row, "Inspected By:", x.styles.label)
	x.set(1, row+1, req.Meta.Inspector, 0)
	x.set(sigCol, row, "Reviewed By:", x.styles.label)
	x.set(sigCol, row+1, req.ReviewerName, 0)
	if !req.ReviewedAt.IsZero() {
		x.set(sigCol, row+2, "Date: "+utils.FormatReportDateTime(req.ReviewedAt), 0)
	}

	x.rowHeight(row+3, 48)
	if png, _, _, err := decodeSignature(req.InspectorSignature); err == nil {
		x.picture(1, row+3, png)
	}
	if png, _, _, err := decodeSignature(req.ReviewerSignature); err == nil {
		x.picture(sigCol, row+3, png)
	}
}

// decodeSignature turns a signature data URL into a PNG sized for a
// signature box; empty input returns no image without error noise.
func decodeSignature(dataURL string) ([]byte, int, int, error) {
	if dataURL == "" {
		return nil, 0, 0, errors.New("no signature")
	}
	raw, _, err := utils.ParseImageDataURL(dataURL, utils.SignatureMimes, 2<<20)
	if err != nil {
		return nil, 0, 0, err
	}
	return utils.ScaleImageToFit(raw, 160, 56)
}

// Form payload readers. Decoded JSON values only; unknown shapes read
// as empty so a malformed entry never panics a report build.

func asSlice(v interface{}) []interface{} {
	if s, ok := v.([]interface{}); ok {
		return s
	}
	return nil
}

func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return nil
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		if s {
			return "Yes"
		}
		return "No"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

func mapString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	return asString(m[key])
}

func statusMark(value string) string {
	switch value {
	case "ok", "pass", "yes", "good":
		return "OK"
	case "not_ok", "fail", "no", "defect", "defective":
		return "X"
	case "na", "n/a", "not_applicable":
		return "N/A"
	case "":
		return "-"
	default:
		return value
	}
}

func buildHSEExcelBody(x *excelSheet, row int, req *ReportRequest) int {
	headers := []string{"No", "Category", "Checklist Item", "Status", "Remarks"}
	for col, h := range headers {
		x.set(col+1, row, h, x.styles.header)
	}
	x.colWidth(1, 1, 6)
	x.colWidth(2, 2, 20)
	x.colWidth(3, 3, 48)
	x.colWidth(4, 4, 10)
	x.colWidth(5, 5, 32)
	row++

	for i, raw := range asSlice(req.FormData["items"]) {
		item := asMap(raw)
		x.set(1, row, i+1, x.styles.cellCenter)
		x.set(2, row, mapString(item, "category"), x.styles.cell)
		x.set(3, row, mapString(item, "item"), x.styles.cell)
		x.set(4, row, statusMark(mapString(item, "status")), x.styles.cellCenter)
		x.set(5, row, mapString(item, "remarks"), x.styles.cell)
		row++
	}

	return row
}

func buildFireExtinguisherExcelBody(x *excelSheet, row int, req *ReportRequest) int {
	headers := []string{"No", "Serial No", "Location", "Type/Size", "Shell", "Hose", "Nozzle", "Gauge", "Pin", "Seal", "Tag", "Remarks"}
	for col, h := range headers {
		x.set(col+1, row, h, x.styles.header)
	}
	x.colWidth(1, 1, 5)
	x.colWidth(2, 2, 16)
	x.colWidth(3, 3, 22)
	x.colWidth(4, 4, 12)
	x.colWidth(5, 11, 8)
	x.colWidth(12, 12, 28)
	row++

	components := []string{"shell", "hose", "nozzle", "gauge", "pin", "seal", "tag"}
	for i, raw := range asSlice(req.FormData["extinguishers"]) {
		unit := asMap(raw)
		x.set(1, row, i+1, x.styles.cellCenter)
		x.set(2, row, mapString(unit, "serialNo"), x.styles.cell)
		x.set(3, row, mapString(unit, "location"), x.styles.cell)
		x.set(4, row, mapString(unit, "typeSize"), x.styles.cellCenter)
		checks := asMap(unit["components"])
		if checks == nil {
			checks = unit
		}
		for j, name := range components {
			x.set(5+j, row, statusMark(mapString(checks, name)), x.styles.cellCenter)
		}
		x.set(12, row, mapString(unit, "remarks"), x.styles.cell)
		row++
	}

	return row
}

func buildFirstAidExcelBody(x *excelSheet, row int, req *ReportRequest) int {
	headers := []string{"Box No", "Location", "Item", "Qty", "Expiry", "Status"}
	for col, h := range headers {
		x.set(col+1, row, h, x.styles.header)
	}
	x.colWidth(1, 1, 10)
	x.colWidth(2, 2, 22)
	x.colWidth(3, 3, 34)
	x.colWidth(4, 4, 8)
	x.colWidth(5, 5, 14)
	x.colWidth(6, 6, 12)
	row++

	for _, raw := range asSlice(req.FormData["kits"]) {
		kit := asMap(raw)
		boxNo := mapString(kit, "boxNo")
		location := mapString(kit, "location")
		items := asSlice(kit["items"])
		if len(items) == 0 {
			x.set(1, row, boxNo, x.styles.cellCenter)
			x.set(2, row, location, x.styles.cell)
			x.set(6, row, statusMark(mapString(kit, "status")), x.styles.cellCenter)
			row++
			continue
		}
		for _, rawItem := range items {
			item := asMap(rawItem)
			x.set(1, row, boxNo, x.styles.cellCenter)
			x.set(2, row, location, x.styles.cell)
			x.set(3, row, mapString(item, "name"), x.styles.cell)
			x.set(4, row, mapString(item, "quantity"), x.styles.cellCenter)
			x.set(5, row, mapString(item, "expiryDate"), x.styles.cellCenter)
			x.set(6, row, statusMark(mapString(item, "status")), x.styles.cellCenter)
			row++
		}
	}

	return row
}

func buildObservationExcelBody(x *excelSheet, row int, req *ReportRequest) int {
	headers := []string{"No", "Observation", "Category", "Risk", "Corrective Action", "Status"}
	for col, h := range headers {
		x.set(col+1, row, h, x.styles.header)
	}
	x.colWidth(1, 1, 5)
	x.colWidth(2, 2, 44)
	x.colWidth(3, 3, 16)
	x.colWidth(4, 4, 10)
	x.colWidth(5, 5, 40)
	x.colWidth(6, 6, 12)
	row++

	for i, raw := range asSlice(req.FormData["observations"]) {
		obs := asMap(raw)
		x.set(1, row, i+1, x.styles.cellCenter)
		x.set(2, row, mapString(obs, "description"), x.styles.cell)
		x.set(3, row, mapString(obs, "category"), x.styles.cell)
		x.set(4, row, mapString(obs, "riskLevel"), x.styles.cellCenter)
		x.set(5, row, mapString(obs, "correctiveAction"), x.styles.cell)
		x.set(6, row, statusMark(mapString(obs, "status")), x.styles.cellCenter)
		row++
	}

	return row
}

func buildManhoursExcelBody(x *excelSheet, row int, req *ReportRequest) int {
	x.colWidth(1, 1, 28)
	x.colWidth(2, 4, 16)

	rows := []struct {
		label string
		key   string
	}{
		{"Reporting Month", "month"},
		{"Total Workers", "totalWorkers"},
		{"Total Manhours", "totalManhours"},
		{"Safe Manhours", "safeManhours"},
		{"Incidents", "incidents"},
		{"Lost Time Injuries", "lostTimeInjuries"},
		{"Training Hours", "trainingHours"},
	}
	for _, item := range rows {
		value := asString(req.FormData[item.key])
		if value == "" {
			continue
		}
		x.set(1, row, item.label, x.styles.header)
		x.set(2, row, value, x.styles.cell)
		row++
	}

	return row
}

func (s *ExportService) renderPDF(tmpl ReportTemplate, req *ReportRequest) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	if !req.ReviewedAt.IsZero() {
		pdf.SetCreationDate(req.ReviewedAt.UTC())
		pdf.SetModificationDate(req.ReviewedAt.UTC())
	} else if req.Meta.InspectionDate != nil {
		pdf.SetCreationDate(req.Meta.InspectionDate.UTC())
		pdf.SetModificationDate(req.Meta.InspectionDate.UTC())
	}
	pdf.SetTitle(tmpl.Title, false)
	pdf.SetAuthor("Safety Inspection System", false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 9, tmpl.Title, "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	writePDFMetaLine(pdf, "Company", req.Meta.Company)
	writePDFMetaLine(pdf, "Location", req.Meta.Location)
	writePDFMetaLine(pdf, "Inspection Date", utils.FormatReportDatePtr(req.Meta.InspectionDate))
	writePDFMetaLine(pdf, "Inspected By", req.Meta.Inspector)
	pdf.Ln(3)

	tmpl.buildPDF(pdf, req)

	writePDFSignatures(pdf, req)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writePDFMetaLine(pdf *fpdf.Fpdf, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(38, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func writePDFTable(pdf *fpdf.Fpdf, headers []string, widths []float64, rows [][]string) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(217, 217, 217)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for i, value := range row {
			if len(value) > 60 {
				value = value[:57] + "..."
			}
			pdf.CellFormat(widths[i], 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func writePDFSignatures(pdf *fpdf.Fpdf, req *ReportRequest) {
	pdf.Ln(8)
	y := pdf.GetY()

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(120, 6, "Inspected By: "+req.Meta.Inspector, "", 0, "L", false, 0, "")
	reviewed := "Reviewed By: " + req.ReviewerName
	if !req.ReviewedAt.IsZero() {
		reviewed += " (" + utils.FormatReportDateTime(req.ReviewedAt) + ")"
	}
	pdf.CellFormat(0, 6, reviewed, "", 1, "L", false, 0, "")

	if png, w, h, err := decodeSignature(req.InspectorSignature); err == nil {
		placePDFSignature(pdf, "inspector_sig", png, 12, y+8, w, h)
	}
	if png, w, h, err := decodeSignature(req.ReviewerSignature); err == nil {
		placePDFSignature(pdf, "reviewer_sig", png, 132, y+8, w, h)
	}
}

func placePDFSignature(pdf *fpdf.Fpdf, name string, png []byte, x, y float64, pxWidth, pxHeight int) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	if pdf.Err() {
		return
	}
	// 96 dpi pixels to millimetres.
	widthMM := float64(pxWidth) * 25.4 / 96.0
	heightMM := float64(pxHeight) * 25.4 / 96.0
	pdf.ImageOptions(name, x, y, widthMM, heightMM, false, opts, 0, "")
}

func buildHSEPDFBody(pdf *fpdf.Fpdf, req *ReportRequest) {
	headers := []string{"No", "Category", "Checklist Item", "Status", "Remarks"}
	widths := []float64{12, 45, 110, 20, 90}
	var rows [][]string
	for i, raw := range asSlice(req.FormData["items"]) {
		item := asMap(raw)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			mapString(item, "category"),
			mapString(item, "item"),
			statusMark(mapString(item, "status")),
			mapString(item, "remarks"),
		})
	}
	writePDFTable(pdf, headers, widths, rows)
}

func buildFireExtinguisherPDFBody(pdf *fpdf.Fpdf, req *ReportRequest) {
	headers := []string{"No", "Serial", "Location", "Type", "Shell", "Hose", "Nozzle", "Gauge", "Pin", "Seal", "Tag", "Remarks"}
	widths := []float64{10, 28, 40, 20, 15, 15, 15, 15, 12, 12, 12, 60}
	components := []string{"shell", "hose", "nozzle", "gauge", "pin", "seal", "tag"}

	var rows [][]string
	for i, raw := range asSlice(req.FormData["extinguishers"]) {
		unit := asMap(raw)
		checks := asMap(unit["components"])
		if checks == nil {
			checks = unit
		}
		row := []string{
			fmt.Sprintf("%d", i+1),
			mapString(unit, "serialNo"),
			mapString(unit, "location"),
			mapString(unit, "typeSize"),
		}
		for _, name := range components {
			row = append(row, statusMark(mapString(checks, name)))
		}
		row = append(row, mapString(unit, "remarks"))
		rows = append(rows, row)
	}
	writePDFTable(pdf, headers, widths, rows)
}

func buildFirstAidPDFBody(pdf *fpdf.Fpdf, req *ReportRequest) {
	headers := []string{"Box No", "Location", "Item", "Qty", "Expiry", "Status"}
	widths := []float64{22, 50, 90, 18, 30, 25}
	var rows [][]string
	for _, raw := range asSlice(req.FormData["kits"]) {
		kit := asMap(raw)
		boxNo := mapString(kit, "boxNo")
		location := mapString(kit, "location")
		items := asSlice(kit["items"])
		if len(items) == 0 {
			rows = append(rows, []string{boxNo, location, "", "", "", statusMark(mapString(kit, "status"))})
			continue
		}
		for _, rawItem := range items {
			item := asMap(rawItem)
			rows = append(rows, []string{
				boxNo,
				location,
				mapString(item, "name"),
				mapString(item, "quantity"),
				mapString(item, "expiryDate"),
				statusMark(mapString(item, "status")),
			})
		}
	}
	writePDFTable(pdf, headers, widths, rows)
}

func buildObservationPDFBody(pdf *fpdf.Fpdf, req *ReportRequest) {
	headers := []string{"No", "Observation", "Category", "Risk", "Corrective Action", "Status"}
	widths := []float64{10, 90, 30, 20, 90, 25}
	var rows [][]string
	for i, raw := range asSlice(req.FormData["observations"]) {
		obs := asMap(raw)
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			mapString(obs, "description"),
			mapString(obs, "category"),
			mapString(obs, "riskLevel"),
			mapString(obs, "correctiveAction"),
			statusMark(mapString(obs, "status")),
		})
	}
	writePDFTable(pdf, headers, widths, rows)
}

func buildManhoursPDFBody(pdf *fpdf.Fpdf, req *ReportRequest) {
	rows := []struct {
		label string
		key   string
	}{
		{"Reporting Month", "month"},
		{"Total Workers", "totalWorkers"},
		{"Total Manhours", "totalManhours"},
		{"Safe Manhours", "safeManhours"},
		{"Incidents", "incidents"},
		{"Lost Time Injuries", "lostTimeInjuries"},
		{"Training Hours", "trainingHours"},
	}

	pdf.SetFont("Arial", "", 10)
	for _, item := range rows {
		value := asString(req.FormData[item.key])
		if value == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(60, 7, item.label, "1", 0, "L", true, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(60, 7, value, "1", 1, "L", false, 0, "")
	}
}
