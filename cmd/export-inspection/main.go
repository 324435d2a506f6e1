// Command export-inspection renders the report for one stored
// inspection without going through the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"safety-inspection-api/config"
	"safety-inspection-api/models"
	"safety-inspection-api/services"

	"github.com/joho/godotenv"
)

func main() {
	var (
		id     string
		format string
		outDir string
	)

	flag.StringVar(&id, "id", "", "inspection id or client ref")
	flag.StringVar(&format, "format", "excel", "report format: excel or pdf")
	flag.StringVar(&outDir, "out", ".", "output directory")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if id == "" {
		log.Fatal("id is required")
	}
	reportFormat := services.ReportFormat(format)
	if !reportFormat.IsValid() {
		log.Fatalf("unknown format %q (want excel or pdf)", format)
	}

	config.InitDB()

	var inspection models.Inspection
	if err := config.DB.Where("inspection_id = ? OR client_ref = ?", id, id).
		First(&inspection).Error; err != nil {
		log.Fatalf("inspection %s not found: %v", id, err)
	}

	req, err := services.ReportRequestFor(&inspection, reportFormat)
	if err != nil {
		log.Fatalf("inspection %s has unreadable form data: %v", inspection.ID, err)
	}

	doc, err := services.NewExportService().Generate(req)
	if err != nil {
		log.Fatalf("report generation failed: %v", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	outPath := filepath.Join(outDir, doc.FileName)
	if err := os.WriteFile(outPath, doc.Data, 0o644); err != nil {
		log.Fatalf("failed to write report: %v", err)
	}

	fmt.Printf("Report written to %s (%d bytes)\n", outPath, len(doc.Data))
}
