package models

// Classification is the judgment for one BlobRecord.
//
// Invariants: Deletable implies Importance != critical and
// ReferencedBy is empty; DeleteReason is set iff Deletable is true.
type Classification struct {
	BlobID        string          `json:"blob_id" yaml:"blob_id"`
	Category      Category        `json:"category" yaml:"category"`
	Subcategory   string          `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Importance    Importance      `json:"importance" yaml:"importance"`
	Deletable     bool            `json:"deletable" yaml:"deletable"`
	DeleteReason  string          `json:"delete_reason,omitempty" yaml:"delete_reason,omitempty"`
	ReferencedBy  []string        `json:"referenced_by,omitempty" yaml:"referenced_by,omitempty"`
	SizeBytes     int64           `json:"size_bytes" yaml:"size_bytes"`
	StorageRebate uint64          `json:"storage_rebate" yaml:"storage_rebate"`
	Site          *SiteDescriptor `json:"site,omitempty" yaml:"site,omitempty"`
}
