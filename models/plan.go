package models

// DeletionPlan aggregates many classifications into an executable
// plan. The core never deletes anything itself; Targets is handed to
// an external executor.
type DeletionPlan struct {
	Targets            []string         `json:"targets" yaml:"targets"`
	TotalSizeReduction int64            `json:"total_size_reduction" yaml:"total_size_reduction"`
	TotalCostSavings   uint64           `json:"total_cost_savings" yaml:"total_cost_savings"`
	CategoryCounts     map[Category]int `json:"category_counts" yaml:"category_counts"`
	Warnings           []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Recommendation is one prioritized cleanup suggestion. Descriptive
// only; it never mutates deletability or importance.
type Recommendation struct {
	Type        string   `json:"type" yaml:"type"` // immediate, suggested, review
	Description string   `json:"description" yaml:"description"`
	Impact      string   `json:"impact" yaml:"impact"` // High, Medium, Low
	BlobIDs     []string `json:"blob_ids" yaml:"blob_ids"`
}
