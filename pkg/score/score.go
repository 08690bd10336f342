// Package score assigns each blob an importance level and decides
// deletion eligibility with a justification. All rules are pure
// computations over already-fetched data; the caller supplies the
// current epoch so results are reproducible.
package score

import (
	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/dtnitsch/walrus-sweeper/pkg/classify"
)

// oldAgeDays is the age in whole days past which an unreferenced
// blob drops to low importance. One network epoch is one day.
const oldAgeDays = 365

// Delete justifications. The cleanup analyzer matches on these, so
// they are exported constants rather than inline strings.
const (
	ReasonExpired    = "Blob has expired"
	ReasonDisposable = "Marked as disposable"
	ReasonOldAndLow  = "Low importance and older than 1 year"
)

// Input carries everything the scorer needs for one blob. Site is
// nil either when the category is not website or when content could
// not be analyzed; SiteAnalysisFailed distinguishes the two.
type Input struct {
	Blob               models.BlobRecord
	MimeType           string
	Category           models.Category
	Site               *models.SiteDescriptor
	SiteAnalysisFailed bool
	ReferencedBy       []string
	LinkedDomain       string // domain name associated with the site, if the caller resolved one
	NowEpoch           uint64
}

// Importance applies the decision order: expiry, website analysis,
// references, then age. First applicable rule wins.
func Importance(in Input) models.Importance {
	if in.Blob.Expired {
		return models.ImportanceDisposable
	}

	if in.Category == models.CategoryWebsite {
		if in.Site == nil || in.SiteAnalysisFailed {
			// Possibly corrupted, not critical.
			return models.ImportanceLow
		}
		if in.LinkedDomain != "" {
			return models.ImportanceCritical
		}
		return models.ImportanceImportant
	}

	if len(in.ReferencedBy) > 0 {
		return models.ImportanceImportant
	}

	if in.Blob.AgeDays(in.NowEpoch) > oldAgeDays {
		return models.ImportanceLow
	}
	return models.ImportanceNormal
}

// Deletable evaluates the eligibility gate after importance. The
// owner's creation-time flag is an absolute veto.
func Deletable(in Input, importance models.Importance) (bool, string) {
	if !in.Blob.Deletable {
		return false, ""
	}
	if importance == models.ImportanceCritical {
		return false, ""
	}
	if len(in.ReferencedBy) > 0 {
		return false, ""
	}

	if in.Blob.Expired {
		return true, ReasonExpired
	}
	if importance == models.ImportanceDisposable {
		return true, ReasonDisposable
	}
	if importance == models.ImportanceLow && in.Blob.AgeDays(in.NowEpoch) > oldAgeDays {
		return true, ReasonOldAndLow
	}

	return false, ""
}

// Classify assembles the full per-blob judgment.
func Classify(in Input) models.Classification {
	importance := Importance(in)
	deletable, reason := Deletable(in, importance)

	sizeBytes := in.Blob.SizeBytes
	if sizeBytes == 0 && in.Site != nil {
		sizeBytes = in.Site.TotalResourceBytes()
	}

	return models.Classification{
		BlobID:        in.Blob.BlobID,
		Category:      in.Category,
		Subcategory:   classify.Subcategory(in.Category, in.MimeType, in.Site),
		Importance:    importance,
		Deletable:     deletable,
		DeleteReason:  reason,
		ReferencedBy:  in.ReferencedBy,
		SizeBytes:     sizeBytes,
		StorageRebate: in.Blob.StorageRebate,
		Site:          in.Site,
	}
}
