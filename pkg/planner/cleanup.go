package planner

import (
	"fmt"

	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/dtnitsch/walrus-sweeper/pkg/score"
	"github.com/dustin/go-humanize"
)

// reviewSizeBytes flags blobs for manual review above this size.
const reviewSizeBytes = 50 << 20 // 50 MiB

// Analyze produces prioritized cleanup recommendations from a full
// classification set. Recommendations are descriptive only and never
// change deletability or importance.
func Analyze(classifications []models.Classification) []models.Recommendation {
	var expired, aged, oversized []string
	var oversizedBytes int64

	for _, c := range classifications {
		if c.DeleteReason == score.ReasonExpired {
			expired = append(expired, c.BlobID)
		}
		if c.Importance == models.ImportanceLow && c.DeleteReason == score.ReasonOldAndLow {
			aged = append(aged, c.BlobID)
		}
		if c.Category != models.CategoryWebsite &&
			c.Importance != models.ImportanceCritical &&
			c.SizeBytes > reviewSizeBytes {
			oversized = append(oversized, c.BlobID)
			oversizedBytes += c.SizeBytes
		}
	}

	var recommendations []models.Recommendation

	if len(expired) > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:        "immediate",
			Description: fmt.Sprintf("Delete %d expired blob(s); their storage lease has already elapsed", len(expired)),
			Impact:      "High",
			BlobIDs:     expired,
		})
	}

	if len(aged) > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:        "suggested",
			Description: fmt.Sprintf("Delete %d low-importance blob(s) older than one year", len(aged)),
			Impact:      "Medium",
			BlobIDs:     aged,
		})
	}

	if len(oversized) > 0 {
		recommendations = append(recommendations, models.Recommendation{
			Type:        "review",
			Description: fmt.Sprintf("Review %d blob(s) over %s (%s total); large non-website content may be unintentional", len(oversized), humanize.IBytes(reviewSizeBytes), humanize.IBytes(uint64(oversizedBytes))),
			Impact:      "High",
			BlobIDs:     oversized,
		})
	}

	return recommendations
}
