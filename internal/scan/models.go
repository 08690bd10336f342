package scan

import "github.com/dtnitsch/walrus-sweeper/models"

// Job is one blob to classify.
type Job struct {
	Blob models.BlobRecord
}

// analyzed is the phase-one outcome for a blob: content inspected,
// site structure resolved, references not yet looked up.
type analyzed struct {
	Blob               models.BlobRecord
	MimeType           string
	Category           models.Category
	Site               *models.SiteDescriptor
	SiteAnalysisFailed bool
	Err                error
	ErrType            string
}

// Options tunes one scan run.
type Options struct {
	WorkerCount  int
	FetchContent bool              // fetch bytes even when a declared type suffices
	NowEpoch     uint64            // current network epoch, pinned by the caller
	Domains      map[string]string // blob id -> linked domain name, resolved by the caller
}

// Stats summarizes a finished run.
type Stats struct {
	TotalBlobs int `json:"total_blobs"`
	Classified int `json:"classified"`
	Failed     int `json:"failed"`
	Deletable  int `json:"deletable"`
}

// ResultSummary is the per-blob slice of the final JSON output.
type ResultSummary struct {
	BlobID       string `json:"blob_id"`
	Status       string `json:"status"`
	Category     string `json:"category,omitempty"`
	Subcategory  string `json:"subcategory,omitempty"`
	Importance   string `json:"importance,omitempty"`
	Deletable    bool   `json:"deletable"`
	DeleteReason string `json:"delete_reason,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
	SiteTitle    string `json:"site_title,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorType    string `json:"error_type,omitempty"`
}

// Totals aggregates the classification set for the final output.
type Totals struct {
	SizeBytes     int64                     `json:"size_bytes"`
	StorageRebate uint64                    `json:"storage_rebate"`
	ByCategory    map[models.Category]int   `json:"by_category"`
	ByImportance  map[models.Importance]int `json:"by_importance"`
}

// FinalOutput is the JSON document the scan command prints.
type FinalOutput struct {
	Status  string          `json:"status"`
	ScanID  string          `json:"scan_id,omitempty"`
	Stats   Stats           `json:"stats"`
	Totals  Totals          `json:"totals"`
	Results []ResultSummary `json:"results"`
}
