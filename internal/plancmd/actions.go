// Package plancmd implements the plan command: it turns the latest
// persisted scan into a deletion plan for an external executor.
package plancmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dtnitsch/walrus-sweeper/internal/scan"
	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/dtnitsch/walrus-sweeper/pkg/db"
	"github.com/dtnitsch/walrus-sweeper/pkg/planner"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// PlanAction builds a deletion plan from the latest scan (or an
// explicit --scan-id) and prints it. The plan is advisory: nothing
// is deleted here.
func PlanAction(c *cli.Context) error {
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
			return fmt.Errorf("no scan to plan from: %w", err)
		}
	}

	classifications, err := database.GetClassifications(scanID)
	if err != nil {
		return fmt.Errorf("failed to load classifications: %w", err)
	}
	logger.Info("Planning from scan", "scan_id", scanID, "classification_count", len(classifications))

	filters, err := parseFilters(c)
	if err != nil {
		return err
	}

	plan := planner.Plan(classifications, filters)
	logger.Info("Plan ready", "summary", planner.Describe(plan))

	return printFormatted(plan, c.String("format"))
}

// parseFilters reads the optional AND-combined plan filters from
// flags.
func parseFilters(c *cli.Context) (planner.Filters, error) {
	var filters planner.Filters

	if include := c.String("include"); include != "" {
		filters.IncludeCategories = splitCategories(include)
	}
	if exclude := c.String("exclude"); exclude != "" {
		filters.ExcludeCategories = splitCategories(exclude)
	}

	if maxImportance := c.String("max-importance"); maxImportance != "" {
		importance, ok := models.ParseImportance(maxImportance)
		if !ok {
			return filters, fmt.Errorf("unknown importance level: %q", maxImportance)
		}
		filters.MaxImportance = importance
	}

	if minSize := c.String("min-size"); minSize != "" {
		size, err := humanize.ParseBytes(minSize)
		if err != nil {
			return filters, fmt.Errorf("invalid min-size: %w", err)
		}
		filters.MinSizeBytes = int64(size)
	}
	if maxSize := c.String("max-size"); maxSize != "" {
		size, err := humanize.ParseBytes(maxSize)
		if err != nil {
			return filters, fmt.Errorf("invalid max-size: %w", err)
		}
		filters.MaxSizeBytes = int64(size)
	}

	return filters, nil
}

func splitCategories(csv string) []models.Category {
	var categories []models.Category
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			categories = append(categories, models.Category(part))
		}
	}
	return categories
}

func printFormatted(v any, format string) error {
	switch format {
	case "", "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(data))
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Print(string(data))
	default:
		return fmt.Errorf("unknown output format: %q", format)
	}
	return nil
}
