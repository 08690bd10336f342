// Package report implements the report command: cleanup
// recommendations and classification export over a persisted scan.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dtnitsch/walrus-sweeper/internal/scan"
	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/dtnitsch/walrus-sweeper/pkg/db"
	"github.com/dtnitsch/walrus-sweeper/pkg/planner"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Report is the document the report command emits.
type Report struct {
	ScanID          string                  `json:"scan_id" yaml:"scan_id"`
	Summary         Summary                 `json:"summary" yaml:"summary"`
	Recommendations []models.Recommendation `json:"recommendations" yaml:"recommendations"`
}

// Summary rolls the classification set up for the report header.
type Summary struct {
	TotalBlobs     int                       `json:"total_blobs" yaml:"total_blobs"`
	TotalSizeBytes int64                     `json:"total_size_bytes" yaml:"total_size_bytes"`
	Deletable      int                       `json:"deletable" yaml:"deletable"`
	CategoryCounts map[models.Category]int   `json:"category_counts" yaml:"category_counts"`
	ByImportance   map[models.Importance]int `json:"by_importance" yaml:"by_importance"`
}

// ReportAction loads a persisted scan and prints cleanup
// recommendations plus a roll-up summary. With --format csv it
// exports the raw classification rows instead.
func ReportAction(c *cli.Context) error {
	logger := scan.NewLogger(c.Bool("quiet"))

	dbPath := c.String("db")
	if dbPath == "" {
		dbPath = db.DefaultDBName
	}
	database, err := db.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	scanID := c.String("scan-id")
	if scanID == "" {
		scanID, err = database.LatestScanID(c.String("owner"))
		if err != nil {
			return fmt.Errorf("no scan to report on: %w", err)
		}
	}

	classifications, err := database.GetClassifications(scanID)
	if err != nil {
		return fmt.Errorf("failed to load classifications: %w", err)
	}
	logger.Info("Reporting on scan", "scan_id", scanID, "classification_count", len(classifications))

	format := c.String("format")
	if format == "csv" {
		return writeCSV(os.Stdout, classifications)
	}

	report := Report{
		ScanID:          scanID,
		Summary:         summarize(classifications),
		Recommendations: planner.Analyze(classifications),
	}

	switch format {
	case "", "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Print(string(data))
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
	return nil
}

func summarize(classifications []models.Classification) Summary {
	summary := Summary{
		CategoryCounts: map[models.Category]int{},
		ByImportance:   map[models.Importance]int{},
	}
	for _, c := range classifications {
		summary.TotalBlobs++
		summary.TotalSizeBytes += c.SizeBytes
		summary.CategoryCounts[c.Category]++
		summary.ByImportance[c.Importance]++
		if c.Deletable {
			summary.Deletable++
		}
	}
	return summary
}

var csvHeader = []string{
	"blob_id", "category", "subcategory", "importance", "deletable",
	"delete_reason", "size_bytes", "storage_rebate", "referenced_by", "site_title",
}

// writeCSV exports one row per classification for spreadsheet triage.
func writeCSV(w *os.File, classifications []models.Classification) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, c := range classifications {
		var siteTitle string
		if c.Site != nil {
			siteTitle = c.Site.Title
		}
		row := []string{
			c.BlobID,
			string(c.Category),
			c.Subcategory,
			string(c.Importance),
			strconv.FormatBool(c.Deletable),
			c.DeleteReason,
			strconv.FormatInt(c.SizeBytes, 10),
			strconv.FormatUint(c.StorageRebate, 10),
			strings.Join(c.ReferencedBy, ";"),
			siteTitle,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
