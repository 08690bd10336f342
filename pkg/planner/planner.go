// Package planner aggregates classified blobs into deletion plans
// and cleanup recommendations. Plans are advisory: execution is
// delegated to an external executor that consumes the target list.
package planner

import (
	"fmt"

	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/dustin/go-humanize"
)

const (
	largeBlobBytes  = 10 << 20 // 10 MiB
	volumeThreshold = 50
)

// Filters narrows which deletable classifications enter a plan. All
// fields are optional and AND-combined.
type Filters struct {
	IncludeCategories []models.Category
	ExcludeCategories []models.Category
	// MaxImportance excludes anything more protected than the given
	// level. Empty means no importance limit.
	MaxImportance models.Importance
	MinSizeBytes  int64
	MaxSizeBytes  int64
}

func (f Filters) pass(c models.Classification) bool {
	if !c.Deletable {
		return false
	}

	if len(f.IncludeCategories) > 0 {
		found := false
		for _, cat := range f.IncludeCategories {
			if c.Category == cat {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, cat := range f.ExcludeCategories {
		if c.Category == cat {
			return false
		}
	}

	if f.MaxImportance != "" && c.Importance.StricterThan(f.MaxImportance) {
		return false
	}

	if f.MinSizeBytes > 0 && c.SizeBytes < f.MinSizeBytes {
		return false
	}
	if f.MaxSizeBytes > 0 && c.SizeBytes > f.MaxSizeBytes {
		return false
	}

	return true
}

// Plan selects the deletable classifications passing every filter
// and aggregates them into an executable plan with advisory
// warnings. The returned plan is never nil.
func Plan(classifications []models.Classification, filters Filters) *models.DeletionPlan {
	plan := &models.DeletionPlan{
		CategoryCounts: map[models.Category]int{},
	}

	var websites, important, large int

	for _, c := range classifications {
		if !filters.pass(c) {
			continue
		}

		plan.Targets = append(plan.Targets, c.BlobID)
		plan.TotalSizeReduction += c.SizeBytes
		plan.TotalCostSavings += c.StorageRebate
		plan.CategoryCounts[c.Category]++

		if c.Category == models.CategoryWebsite {
			websites++
		}
		if c.Importance == models.ImportanceImportant {
			important++
		}
		if c.SizeBytes > largeBlobBytes {
			large++
		}
	}

	if websites > 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("%d website(s) will be permanently removed", websites))
	}
	if important > 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("%d blob(s) at important level included in deletion", important))
	}
	if large > 0 {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("%d blob(s) larger than %s included", large, humanize.IBytes(largeBlobBytes)))
	}
	if len(plan.Targets) > volumeThreshold {
		plan.Warnings = append(plan.Warnings,
			fmt.Sprintf("Large number of blobs to delete (%d)", len(plan.Targets)))
	}

	return plan
}

// Describe renders a short human-readable summary of a plan.
func Describe(plan *models.DeletionPlan) string {
	return fmt.Sprintf("%d blob(s), %s reclaimed, %d cost units refunded",
		len(plan.Targets),
		humanize.IBytes(uint64(plan.TotalSizeReduction)),
		plan.TotalCostSavings)
}
