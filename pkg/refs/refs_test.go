package refs

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/dtnitsch/walrus-sweeper/models"
)

func TestIndex_AddAndLookup(t *testing.T) {
	idx := NewIndex()
	idx.Add("target", "site-a")
	idx.Add("target", "site-b")
	idx.Add("target", "site-a") // duplicate

	got, err := idx.ReferencedBy(context.Background(), "target")
	if err != nil {
		t.Fatalf("ReferencedBy() error = %v", err)
	}
	want := []string{"site-a", "site-b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReferencedBy() = %v, want %v", got, want)
	}
}

func TestIndex_UnknownBlobHasNoReferences(t *testing.T) {
	idx := NewIndex()
	got, err := idx.ReferencedBy(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ReferencedBy() error = %v", err)
	}
	if got != nil {
		t.Errorf("ReferencedBy(unknown) = %v, want nil", got)
	}
}

func TestIndex_SelfReferenceIgnored(t *testing.T) {
	idx := NewIndex()
	idx.Add("same", "same")
	if got, _ := idx.ReferencedBy(context.Background(), "same"); got != nil {
		t.Errorf("self reference recorded: %v", got)
	}
}

func TestIndex_AddSite(t *testing.T) {
	embedded := strings.Repeat("ab", 32) // 64 hex chars
	site := &models.SiteDescriptor{
		HasIndexPage: true,
		Resources: []models.SiteResource{
			{Path: "index.html"},
			{Path: "media/" + embedded + ".png"},
			{Path: "docs/readme.txt"},
		},
	}

	idx := NewIndex()
	idx.AddSite("owner-site", site)

	got, _ := idx.ReferencedBy(context.Background(), embedded)
	if len(got) != 1 || got[0] != "owner-site" {
		t.Errorf("ReferencedBy(embedded) = %v, want [owner-site]", got)
	}

	if got, _ := idx.ReferencedBy(context.Background(), "index.html"); got != nil {
		t.Errorf("non-id path recorded as reference: %v", got)
	}
}

func TestIndex_AddSiteNil(t *testing.T) {
	idx := NewIndex()
	idx.AddSite("site", nil) // must not panic
}
