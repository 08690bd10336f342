package models

// SiteResource is one file inside a site bundle.
type SiteResource struct {
	Path        string `json:"path" yaml:"path"`
	ContentType string `json:"content_type" yaml:"content_type"`
	SizeBytes   int64  `json:"size_bytes" yaml:"size_bytes"`
}

// SiteDescriptor is the result of structural analysis of one blob
// believed to be a website. IsFileDirectory and HasIndexPage are
// mutually exclusive; Resources is non-empty whenever
// IsFileDirectory is true.
type SiteDescriptor struct {
	HasIndexPage    bool              `json:"has_index_page" yaml:"has_index_page"`
	Resources       []SiteResource    `json:"resources,omitempty" yaml:"resources,omitempty"`
	CustomHeaders   map[string]string `json:"custom_headers,omitempty" yaml:"custom_headers,omitempty"`
	IsFileDirectory bool              `json:"is_file_directory" yaml:"is_file_directory"`
	Title           string            `json:"title,omitempty" yaml:"title,omitempty"`

	// Best-effort enrichment; empty when extraction was not possible.
	Excerpt  string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"` // ISO-639-1 if detectable
}

// TotalResourceBytes sums the uncompressed size of every resource.
func (s *SiteDescriptor) TotalResourceBytes() int64 {
	var total int64
	for _, r := range s.Resources {
		total += r.SizeBytes
	}
	return total
}
