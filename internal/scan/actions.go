package scan

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/dtnitsch/walrus-sweeper/pkg/db"
	"github.com/dtnitsch/walrus-sweeper/pkg/refs"
	"github.com/dtnitsch/walrus-sweeper/pkg/sui"
	"github.com/dtnitsch/walrus-sweeper/pkg/walrus"
	"github.com/urfave/cli/v2"
)

// NewLogger builds the shared JSON logger writing to stderr so
// stdout stays clean for machine-readable output.
func NewLogger(quiet bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if quiet {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// resolveConfig merges the optional YAML config file with CLI flags;
// flags win.
func resolveConfig(c *cli.Context) (*models.ScanConfig, error) {
	config := &models.ScanConfig{}
	if path := c.String("config"); path != "" {
		loaded, err := models.LoadScanConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if v := c.String("owner"); v != "" {
		config.OwnerAddress = v
	}
	if v := c.String("aggregator-url"); v != "" {
		config.AggregatorURL = v
	}
	if v := c.String("rpc-url"); v != "" {
		config.RPCURL = v
	}
	if v := c.Int("workers"); v > 0 {
		config.WorkerCount = v
	}
	if v := c.String("db"); v != "" {
		config.DBPath = v
	}
	if c.Bool("fetch-content") {
		config.FetchContent = true
	}

	if config.OwnerAddress == "" {
		return nil, fmt.Errorf("no owner address provided via --owner flag or config file")
	}
	if config.RPCURL == "" {
		return nil, fmt.Errorf("no RPC endpoint provided via --rpc-url flag or config file")
	}
	if config.DBPath == "" {
		config.DBPath = db.DefaultDBName
	}
	return config, nil
}

// currentEpoch approximates the network epoch when the caller did
// not pin one: one epoch is roughly one day.
func currentEpoch() uint64 {
	return uint64(time.Now().Unix() / 86400)
}

// ScanAction enumerates an owner's blobs, classifies them, persists
// the results, and prints a JSON summary.
func ScanAction(c *cli.Context) error {
	logger := NewLogger(c.Bool("quiet"))

	config, err := resolveConfig(c)
	if err != nil {
		return err
	}

	nowEpoch := c.Uint64("epoch")
	if nowEpoch == 0 {
		nowEpoch = currentEpoch()
	}

	database, err := db.Open(config.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	enumerator := sui.NewEnumerator(config.RPCURL, c.String("blob-type"))
	logger.Info("Enumerating owned blobs", "owner", config.OwnerAddress, "rpc_url", config.RPCURL)

	ctx := c.Context
	blobs, err := enumerator.ListBlobs(ctx, config.OwnerAddress, nowEpoch)
	if err != nil {
		return fmt.Errorf("failed to enumerate blobs: %w", err)
	}
	logger.Info("Enumeration complete", "blob_count", len(blobs))

	var reader walrus.Reader
	if config.AggregatorURL != "" {
		client := walrus.NewClient(config.AggregatorURL)
		defer client.Close()
		reader = client
	} else {
		logger.Warn("No aggregator endpoint configured; classifying from metadata only")
	}

	scanID, err := database.BeginScan(config.OwnerAddress, nowEpoch)
	if err != nil {
		return err
	}

	// With --cached, blobs already classified in the latest finished
	// scan are reused instead of re-fetched.
	toAnalyze := blobs
	var reused []models.Classification
	if c.Bool("cached") {
		toAnalyze, reused = splitCached(logger, database, config.OwnerAddress, blobs)
	}

	index := refs.NewIndex()
	classifications, stats := Run(ctx, logger, toAnalyze, reader, index, Options{
		WorkerCount:  config.WorkerCount,
		FetchContent: config.FetchContent,
		NowEpoch:     nowEpoch,
		Domains:      parseDomainLinks(c.StringSlice("domain-link")),
	})

	classifications = append(classifications, reused...)
	stats.TotalBlobs += len(reused)
	stats.Classified += len(reused)
	for _, cls := range reused {
		if cls.Deletable {
			stats.Deletable++
		}
	}

	for _, cls := range classifications {
		if err := database.InsertClassification(scanID, cls); err != nil {
			logger.Warn("Failed to persist classification", "blob_id", cls.BlobID, "error", err)
		}
	}
	if err := database.FinishScan(scanID, stats.TotalBlobs, stats.Deletable, stats.Failed); err != nil {
		logger.Warn("Failed to finalize scan record", "scan_id", scanID, "error", err)
	}

	output := FinalOutput{
		Status:  "success",
		ScanID:  scanID,
		Stats:   stats,
		Totals:  buildTotals(classifications),
		Results: buildSummaries(classifications),
	}
	if stats.Failed > 0 {
		output.Status = "partial"
	}

	outputData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(outputData))
	return nil
}

// parseDomainLinks reads repeated "blobID=domain" flag values into
// the linkage map handed to the scorer. Name resolution itself stays
// outside the tool.
func parseDomainLinks(entries []string) map[string]string {
	if len(entries) == 0 {
		return nil
	}
	links := map[string]string{}
	for _, entry := range entries {
		blobID, domain, found := strings.Cut(entry, "=")
		if !found || blobID == "" || domain == "" {
			continue
		}
		links[blobID] = domain
	}
	return links
}

// splitCached partitions blobs into those needing fresh analysis and
// classifications reusable from the latest finished scan. With no
// previous scan everything is analyzed fresh.
func splitCached(logger *slog.Logger, database *db.DB, owner string, blobs []models.BlobRecord) ([]models.BlobRecord, []models.Classification) {
	prevScanID, err := database.LatestScanID(owner)
	if err != nil {
		logger.Warn("No previous scan to reuse, analyzing everything", "error", err)
		return blobs, nil
	}
	previous, err := database.GetClassifications(prevScanID)
	if err != nil {
		logger.Warn("Failed to load previous scan, analyzing everything", "scan_id", prevScanID, "error", err)
		return blobs, nil
	}

	byBlobID := make(map[string]models.Classification, len(previous))
	for _, cls := range previous {
		byBlobID[cls.BlobID] = cls
	}

	var toAnalyze []models.BlobRecord
	var reused []models.Classification
	for _, blob := range blobs {
		if cls, ok := byBlobID[blob.BlobID]; ok {
			reused = append(reused, cls)
			continue
		}
		toAnalyze = append(toAnalyze, blob)
	}
	logger.Info("Reusing cached classifications", "scan_id", prevScanID, "reused", len(reused), "fresh", len(toAnalyze))
	return toAnalyze, reused
}

func buildTotals(classifications []models.Classification) Totals {
	totals := Totals{
		ByCategory:   map[models.Category]int{},
		ByImportance: map[models.Importance]int{},
	}
	for _, cls := range classifications {
		totals.SizeBytes += cls.SizeBytes
		totals.StorageRebate += cls.StorageRebate
		totals.ByCategory[cls.Category]++
		totals.ByImportance[cls.Importance]++
	}
	return totals
}

func buildSummaries(classifications []models.Classification) []ResultSummary {
	summaries := make([]ResultSummary, 0, len(classifications))
	for _, cls := range classifications {
		summary := ResultSummary{
			BlobID:       cls.BlobID,
			Status:       "classified",
			Category:     string(cls.Category),
			Subcategory:  cls.Subcategory,
			Importance:   string(cls.Importance),
			Deletable:    cls.Deletable,
			DeleteReason: cls.DeleteReason,
			SizeBytes:    cls.SizeBytes,
		}
		if cls.Site != nil {
			summary.SiteTitle = cls.Site.Title
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
