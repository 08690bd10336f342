// Package refs tracks which blobs are embedded by other blobs. The
// scorer treats any lookup failure as "no references found"; a blob
// with references is never eligible for deletion.
package refs

import (
	"context"
	"regexp"
	"sort"
	"sync"

	"github.com/dtnitsch/walrus-sweeper/models"
)

// Lookup is the reference-index interface the scan pipeline depends
// on. Implementations may be backed by anything; errors are treated
// as empty results upstream.
type Lookup interface {
	ReferencedBy(ctx context.Context, blobID string) ([]string, error)
}

// blobIDPattern matches content identifiers embedded in resource
// paths: fixed-length hex, with or without a 0x prefix.
var blobIDPattern = regexp.MustCompile(`(?:0x)?[0-9a-fA-F]{64}`)

// Index is an in-memory reference index built from site descriptors
// and explicit edges. Safe for concurrent use.
type Index struct {
	mu   sync.RWMutex
	refs map[string]map[string]bool // target blob id -> referencing blob ids
}

func NewIndex() *Index {
	return &Index{refs: map[string]map[string]bool{}}
}

// Add records that referrer embeds target.
func (x *Index) Add(target, referrer string) {
	if target == "" || referrer == "" || target == referrer {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.refs[target] == nil {
		x.refs[target] = map[string]bool{}
	}
	x.refs[target][referrer] = true
}

// AddSite scans a site descriptor's resource paths for embedded blob
// identifiers and records each as a reference from the site blob.
func (x *Index) AddSite(siteBlobID string, site *models.SiteDescriptor) {
	if site == nil {
		return
	}
	for _, resource := range site.Resources {
		for _, match := range blobIDPattern.FindAllString(resource.Path, -1) {
			x.Add(match, siteBlobID)
		}
	}
}

// ReferencedBy returns the sorted set of blobs referencing blobID.
// It never fails; an unknown blob has no references.
func (x *Index) ReferencedBy(_ context.Context, blobID string) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	referrers := x.refs[blobID]
	if len(referrers) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(referrers))
	for id := range referrers {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
