package score

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/walrus-sweeper/models"
)

const testNowEpoch = 1000

func baseBlob() models.BlobRecord {
	return models.BlobRecord{
		BlobID:       "a1b2c3",
		SizeBytes:    2048,
		Deletable:    true,
		CreatedEpoch: testNowEpoch - 10,
	}
}

func TestImportance_ExpiredDominates(t *testing.T) {
	blob := baseBlob()
	blob.Expired = true

	inputs := []Input{
		{Blob: blob, Category: models.CategoryDocument, NowEpoch: testNowEpoch},
		{Blob: blob, Category: models.CategoryWebsite, Site: &models.SiteDescriptor{HasIndexPage: true}, LinkedDomain: "example.sui", NowEpoch: testNowEpoch},
		{Blob: blob, Category: models.CategoryImage, ReferencedBy: []string{"other"}, NowEpoch: testNowEpoch},
	}
	for i, in := range inputs {
		if got := Importance(in); got != models.ImportanceDisposable {
			t.Errorf("case %d: Importance() = %q, want disposable", i, got)
		}
	}
}

func TestImportance_Website(t *testing.T) {
	blob := baseBlob()
	site := &models.SiteDescriptor{HasIndexPage: true}

	tests := []struct {
		name string
		in   Input
		want models.Importance
	}{
		{"analysis failed", Input{Blob: blob, Category: models.CategoryWebsite, SiteAnalysisFailed: true, NowEpoch: testNowEpoch}, models.ImportanceLow},
		{"no descriptor", Input{Blob: blob, Category: models.CategoryWebsite, NowEpoch: testNowEpoch}, models.ImportanceLow},
		{"linked domain", Input{Blob: blob, Category: models.CategoryWebsite, Site: site, LinkedDomain: "docs.sui", NowEpoch: testNowEpoch}, models.ImportanceCritical},
		{"no domain", Input{Blob: blob, Category: models.CategoryWebsite, Site: site, NowEpoch: testNowEpoch}, models.ImportanceImportant},
	}

	for _, tt := range tests {
		if got := Importance(tt.in); got != tt.want {
			t.Errorf("%s: Importance() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestImportance_ReferencedAndAge(t *testing.T) {
	referenced := baseBlob()
	in := Input{Blob: referenced, Category: models.CategoryImage, ReferencedBy: []string{"x"}, NowEpoch: testNowEpoch}
	if got := Importance(in); got != models.ImportanceImportant {
		t.Errorf("referenced blob Importance() = %q, want important", got)
	}

	old := baseBlob()
	old.CreatedEpoch = testNowEpoch - 400
	if got := Importance(Input{Blob: old, Category: models.CategoryImage, NowEpoch: testNowEpoch}); got != models.ImportanceLow {
		t.Errorf("age > 365 Importance() = %q, want low", got)
	}

	stale := baseBlob()
	stale.CreatedEpoch = testNowEpoch - 200
	if got := Importance(Input{Blob: stale, Category: models.CategoryImage, NowEpoch: testNowEpoch}); got != models.ImportanceNormal {
		t.Errorf("age > 180 Importance() = %q, want normal", got)
	}

	fresh := baseBlob()
	if got := Importance(Input{Blob: fresh, Category: models.CategoryImage, NowEpoch: testNowEpoch}); got != models.ImportanceNormal {
		t.Errorf("fresh blob Importance() = %q, want normal", got)
	}
}

func TestDeletable_OwnerVetoBeatsExpiry(t *testing.T) {
	blob := baseBlob()
	blob.Expired = true
	blob.Deletable = false

	in := Input{Blob: blob, Category: models.CategoryDocument, NowEpoch: testNowEpoch}
	importance := Importance(in)
	if importance != models.ImportanceDisposable {
		t.Fatalf("Importance() = %q, want disposable", importance)
	}

	deletable, reason := Deletable(in, importance)
	if deletable {
		t.Error("Deletable() = true, want false: owner flag is an absolute veto")
	}
	if reason != "" {
		t.Errorf("reason = %q, want empty", reason)
	}
}

func TestDeletable_ReferencedNeverDeletable(t *testing.T) {
	blob := baseBlob()
	blob.Expired = true

	in := Input{Blob: blob, Category: models.CategoryDocument, ReferencedBy: []string{"parent"}, NowEpoch: testNowEpoch}
	deletable, _ := Deletable(in, Importance(in))
	if deletable {
		t.Error("Deletable() = true for referenced blob, want false")
	}
}

func TestDeletable_Reasons(t *testing.T) {
	expired := baseBlob()
	expired.Expired = true
	in := Input{Blob: expired, Category: models.CategoryDocument, NowEpoch: testNowEpoch}
	deletable, reason := Deletable(in, Importance(in))
	if !deletable || reason != ReasonExpired {
		t.Errorf("expired: (%v, %q), want (true, %q)", deletable, reason, ReasonExpired)
	}

	old := baseBlob()
	old.CreatedEpoch = testNowEpoch - 400
	in = Input{Blob: old, Category: models.CategoryImage, NowEpoch: testNowEpoch}
	deletable, reason = Deletable(in, Importance(in))
	if !deletable || reason != ReasonOldAndLow {
		t.Errorf("old: (%v, %q), want (true, %q)", deletable, reason, ReasonOldAndLow)
	}

	fresh := baseBlob()
	in = Input{Blob: fresh, Category: models.CategoryImage, NowEpoch: testNowEpoch}
	deletable, reason = Deletable(in, Importance(in))
	if deletable || reason != "" {
		t.Errorf("fresh: (%v, %q), want (false, \"\")", deletable, reason)
	}
}

// Scenario: declared text/html, not expired, deletable flag set, no
// references, age 10 days, single-page site without domain linkage.
func TestClassify_FreshWebsite(t *testing.T) {
	in := Input{
		Blob:     baseBlob(),
		MimeType: "text/html",
		Category: models.CategoryWebsite,
		Site: &models.SiteDescriptor{
			HasIndexPage: true,
			Title:        "Untitled Site",
			Resources:    []models.SiteResource{{Path: "index.html", ContentType: "text/html", SizeBytes: 28}},
		},
		NowEpoch: testNowEpoch,
	}

	cls := Classify(in)
	if cls.Category != models.CategoryWebsite {
		t.Errorf("Category = %q, want website", cls.Category)
	}
	if cls.Importance != models.ImportanceImportant {
		t.Errorf("Importance = %q, want important", cls.Importance)
	}
	if cls.Deletable {
		t.Error("Deletable = true, want false")
	}
	if cls.Subcategory != "Website" {
		t.Errorf("Subcategory = %q, want Website", cls.Subcategory)
	}
}

// Scenario: expired document, deletable flag set.
func TestClassify_ExpiredDocument(t *testing.T) {
	blob := baseBlob()
	blob.Expired = true
	blob.SizeBytes = 1 << 20

	cls := Classify(Input{Blob: blob, MimeType: "application/pdf", Category: models.CategoryDocument, NowEpoch: testNowEpoch})
	if cls.Importance != models.ImportanceDisposable {
		t.Errorf("Importance = %q, want disposable", cls.Importance)
	}
	if !cls.Deletable {
		t.Error("Deletable = false, want true")
	}
	if cls.DeleteReason != ReasonExpired {
		t.Errorf("DeleteReason = %q, want %q", cls.DeleteReason, ReasonExpired)
	}
	if cls.Subcategory != "PDF" {
		t.Errorf("Subcategory = %q, want PDF", cls.Subcategory)
	}
}

func TestClassify_Idempotent(t *testing.T) {
	in := Input{
		Blob:         baseBlob(),
		MimeType:     "image/png",
		Category:     models.CategoryImage,
		ReferencedBy: []string{"site1"},
		NowEpoch:     testNowEpoch,
	}

	first := Classify(in)
	for i := 0; i < 5; i++ {
		if got := Classify(in); !reflect.DeepEqual(got, first) {
			t.Fatalf("Classify() not idempotent: %+v vs %+v", got, first)
		}
	}
}

func TestClassify_InvariantDeletableImpliesUnreferencedNonCritical(t *testing.T) {
	blobs := []Input{
		{Blob: baseBlob(), Category: models.CategoryWebsite, Site: &models.SiteDescriptor{HasIndexPage: true}, LinkedDomain: "d.sui", NowEpoch: testNowEpoch},
		{Blob: func() models.BlobRecord { b := baseBlob(); b.Expired = true; return b }(), Category: models.CategoryData, ReferencedBy: []string{"r"}, NowEpoch: testNowEpoch},
		{Blob: func() models.BlobRecord { b := baseBlob(); b.Expired = true; return b }(), Category: models.CategoryData, NowEpoch: testNowEpoch},
	}

	for i, in := range blobs {
		cls := Classify(in)
		if cls.Deletable && cls.Importance == models.ImportanceCritical {
			t.Errorf("case %d: deletable critical classification", i)
		}
		if cls.Deletable && len(cls.ReferencedBy) > 0 {
			t.Errorf("case %d: deletable referenced classification", i)
		}
		if cls.Deletable != (cls.DeleteReason != "") {
			t.Errorf("case %d: DeleteReason presence does not match Deletable", i)
		}
	}
}
