// Package models defines the shared data structures for blob
// classification, site detection, and deletion planning.
package models

// Category is the fixed set of content categories a blob can be
// assigned. Every blob maps to exactly one category.
type Category string

const (
	CategoryWebsite  Category = "website"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryDocument Category = "document"
	CategoryArchive  Category = "archive"
	CategoryCode     Category = "code"
	CategoryData     Category = "data"
	CategoryUnknown  Category = "unknown"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryWebsite,
	CategoryImage,
	CategoryVideo,
	CategoryAudio,
	CategoryDocument,
	CategoryArchive,
	CategoryCode,
	CategoryData,
	CategoryUnknown,
}

// Importance is a five-level ordinal classification governing
// deletion eligibility, from critical (never delete) to disposable.
type Importance string

const (
	ImportanceCritical   Importance = "critical"
	ImportanceImportant  Importance = "important"
	ImportanceNormal     Importance = "normal"
	ImportanceLow        Importance = "low"
	ImportanceDisposable Importance = "disposable"
)

var importanceRank = map[Importance]int{
	ImportanceCritical:   0,
	ImportanceImportant:  1,
	ImportanceNormal:     2,
	ImportanceLow:        3,
	ImportanceDisposable: 4,
}

// Rank returns the position of i in the total order, 0 being the
// most protected (critical). Unknown values rank below disposable so
// a malformed level never widens a deletion plan.
func (i Importance) Rank() int {
	if r, ok := importanceRank[i]; ok {
		return r
	}
	return -1
}

// StricterThan reports whether i is more protected than other.
func (i Importance) StricterThan(other Importance) bool {
	return i.Rank() < other.Rank()
}

// ParseImportance maps a string to an Importance, reporting whether
// the value named a known level.
func ParseImportance(s string) (Importance, bool) {
	imp := Importance(s)
	_, ok := importanceRank[imp]
	return imp, ok
}

// BlobRecord is the identity and metadata for one storage object, as
// reported by the chain enumerator. Read-only within the core.
type BlobRecord struct {
	BlobID              string `json:"blob_id" yaml:"blob_id"`
	SizeBytes           int64  `json:"size_bytes" yaml:"size_bytes"` // 0 until reported or fetched
	DeclaredContentType string `json:"declared_content_type,omitempty" yaml:"declared_content_type,omitempty"`
	Expired             bool   `json:"expired" yaml:"expired"`
	Deletable           bool   `json:"deletable" yaml:"deletable"` // creation-time owner flag, absolute veto when false
	OwnerAddress        string `json:"owner_address,omitempty" yaml:"owner_address,omitempty"`
	StorageObjectID     string `json:"storage_object_id,omitempty" yaml:"storage_object_id,omitempty"`
	CreatedEpoch        uint64 `json:"created_epoch" yaml:"created_epoch"`
	EndEpoch            uint64 `json:"end_epoch,omitempty" yaml:"end_epoch,omitempty"`
	StorageRebate       uint64 `json:"storage_rebate" yaml:"storage_rebate"`
}

// AgeDays returns the blob age in whole days at the given epoch.
// One network epoch is approximately one day.
func (b BlobRecord) AgeDays(nowEpoch uint64) uint64 {
	if nowEpoch <= b.CreatedEpoch {
		return 0
	}
	return nowEpoch - b.CreatedEpoch
}
