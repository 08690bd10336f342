package scan

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/dtnitsch/walrus-sweeper/pkg/classify"
	"github.com/dtnitsch/walrus-sweeper/pkg/refs"
	"github.com/dtnitsch/walrus-sweeper/pkg/score"
	"github.com/dtnitsch/walrus-sweeper/pkg/sitedetect"
	"github.com/dtnitsch/walrus-sweeper/pkg/sniff"
	"github.com/dtnitsch/walrus-sweeper/pkg/walrus"
)

const defaultWorkerCount = 4

// Run classifies a batch of blobs with a bounded worker pool.
//
// The run happens in two phases. Phase one fans out across workers:
// each blob's content is fetched when needed, sniffed, categorized,
// and site-analyzed, and discovered site bundles feed the reference
// index. Phase two is a cheap serial pass that looks up references
// and scores every blob, so a blob classified early still sees
// references contributed by blobs analyzed after it.
//
// A per-blob failure degrades that blob only. Cancelling ctx stops
// issuing further work and returns classifications for the blobs
// already analyzed.
func Run(ctx context.Context, logger *slog.Logger, blobs []models.BlobRecord, reader walrus.Reader, index *refs.Index, opts Options) ([]models.Classification, Stats) {
	if index == nil {
		index = refs.NewIndex()
	}
	workerCount := opts.WorkerCount
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}

	logger.Info("Starting concurrent classification phase",
		"blob_count", len(blobs), "workers", workerCount, "now_epoch", opts.NowEpoch)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(blobs))
	intermediates := make(chan analyzed, len(blobs))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(ctx, w, logger, reader, index, opts, &wg, jobs, intermediates)
	}

	// Stop issuing work as soon as ctx is cancelled; workers finish
	// whatever they already pulled.
feed:
	for _, blob := range blobs {
		select {
		case jobs <- Job{Blob: blob}:
		case <-ctx.Done():
			logger.Warn("Scan cancelled, returning partial results", "error", ctx.Err())
			break feed
		}
	}
	close(jobs)

	wg.Wait()
	close(intermediates)
	logger.Info("All classification workers finished")

	stats := Stats{TotalBlobs: len(blobs)}
	var classifications []models.Classification

	logger.Info("Starting scoring phase")
	for item := range intermediates {
		if item.Err != nil {
			stats.Failed++
			continue
		}

		referencedBy, err := index.ReferencedBy(ctx, item.Blob.BlobID)
		if err != nil {
			// Lookup failure means no references found, never fatal.
			referencedBy = nil
		}

		cls := score.Classify(score.Input{
			Blob:               item.Blob,
			MimeType:           item.MimeType,
			Category:           item.Category,
			Site:               item.Site,
			SiteAnalysisFailed: item.SiteAnalysisFailed,
			ReferencedBy:       referencedBy,
			LinkedDomain:       opts.Domains[item.Blob.BlobID],
			NowEpoch:           opts.NowEpoch,
		})

		classifications = append(classifications, cls)
		stats.Classified++
		if cls.Deletable {
			stats.Deletable++
		}
	}

	return classifications, stats
}

func worker(ctx context.Context, id int, logger *slog.Logger, reader walrus.Reader, index *refs.Index, opts Options, wg *sync.WaitGroup, jobs <-chan Job, out chan<- analyzed) {
	defer wg.Done()
	for job := range jobs {
		logger.Info("Worker started blob", "worker_id", id, "blob_id", job.Blob.BlobID)
		out <- analyzeBlob(ctx, id, logger, reader, index, opts, job.Blob)
	}
}

// needsContent reports whether classification of this blob requires
// the raw bytes: either no authoritative declared type exists, or the
// declared type points at a website/archive whose site-ness only the
// bytes can resolve.
func needsContent(blob models.BlobRecord, opts Options) bool {
	if opts.FetchContent {
		return true
	}
	declared := blob.DeclaredContentType
	if declared == "" || declared == sniff.FallbackType {
		return true
	}
	switch classify.Categorize(declared, nil) {
	case models.CategoryWebsite, models.CategoryArchive:
		return true
	}
	return false
}

func analyzeBlob(ctx context.Context, id int, logger *slog.Logger, reader walrus.Reader, index *refs.Index, opts Options, blob models.BlobRecord) analyzed {
	var data []byte
	var fetchErr error

	if reader != nil && needsContent(blob, opts) {
		data, fetchErr = reader.FetchBytes(ctx, blob.BlobID)
		if fetchErr != nil {
			logger.Warn("Failed to fetch blob content, classifying from metadata",
				"worker_id", id, "blob_id", blob.BlobID, "error", fetchErr)
			data = nil
		}
	}

	declared := blob.DeclaredContentType
	if fetchErr != nil && declared == "" && blob.SizeBytes == 0 {
		// Nothing to classify from at all: no metadata, no content.
		return analyzed{Blob: blob, Err: fetchErr, ErrType: "fetch_error"}
	}

	mimeType := sniff.Detect(data, declared)
	category := classify.Categorize(mimeType, data)

	var site *models.SiteDescriptor
	siteFailed := false

	// An archive that structurally contains an index page is a
	// website; an unhinted archive stays an archive.
	if category == models.CategoryArchive && data != nil {
		if s := sitedetect.Analyze(data); s != nil && s.HasIndexPage {
			category = models.CategoryWebsite
			site = s
		}
	}

	if category == models.CategoryWebsite && site == nil {
		if data == nil {
			siteFailed = true
		} else {
			site = sitedetect.Analyze(data)
			siteFailed = site == nil
		}
	}

	if site != nil {
		index.AddSite(blob.BlobID, site)
	}

	if blob.SizeBytes == 0 && data != nil {
		blob.SizeBytes = int64(len(data))
	}

	logger.Info("Worker finished blob",
		"worker_id", id, "blob_id", blob.BlobID, "category", category)

	return analyzed{
		Blob:               blob,
		MimeType:           mimeType,
		Category:           category,
		Site:               site,
		SiteAnalysisFailed: siteFailed,
	}
}
