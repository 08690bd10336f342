package sitedetect

import (
	"archive/zip"
	"bytes"
	"reflect"
	"testing"
)

// buildZip assembles an in-memory zip from name -> content pairs,
// preserving insertion order.
func buildZip(t *testing.T, entries [][2]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry[0])
		if err != nil {
			t.Fatalf("zip.Create(%q) error = %v", entry[0], err)
		}
		if _, err := w.Write([]byte(entry[1])); err != nil {
			t.Fatalf("zip write error = %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close error = %v", err)
	}
	return buf.Bytes()
}

func TestAnalyze_ZipSiteWithIndex(t *testing.T) {
	data := buildZip(t, [][2]string{
		{"index.html", "<html><head><title>My Site</title></head><body></body></html>"},
		{"style.css", "body { margin: 0; }"},
		{"img/logo.png", "fakepng"},
	})

	desc := Analyze(data)
	if desc == nil {
		t.Fatal("Analyze() = nil, want site descriptor")
	}
	if !desc.HasIndexPage {
		t.Error("HasIndexPage = false, want true")
	}
	if desc.IsFileDirectory {
		t.Error("IsFileDirectory = true, want false")
	}
	if desc.Title != "My Site" {
		t.Errorf("Title = %q, want %q", desc.Title, "My Site")
	}
	if len(desc.Resources) != 3 {
		t.Fatalf("len(Resources) = %d, want 3", len(desc.Resources))
	}
	if desc.Resources[1].ContentType != "text/css" {
		t.Errorf("style.css ContentType = %q, want text/css", desc.Resources[1].ContentType)
	}
	if desc.Resources[2].ContentType != "image/png" {
		t.Errorf("logo.png ContentType = %q, want image/png", desc.Resources[2].ContentType)
	}
}

func TestAnalyze_IndexInsideSingleDirectory(t *testing.T) {
	data := buildZip(t, [][2]string{
		{"site/index.html", "<html><body><h1>Nested</h1></body></html>"},
		{"site/app.js", "console.log(1)"},
	})

	desc := Analyze(data)
	if desc == nil {
		t.Fatal("Analyze() = nil, want site descriptor")
	}
	if !desc.HasIndexPage {
		t.Error("HasIndexPage = false, want true for index one directory deep")
	}
	if desc.Title != "Nested" {
		t.Errorf("Title = %q, want h1 fallback %q", desc.Title, "Nested")
	}
}

func TestAnalyze_IndexTooDeepIsFileDirectory(t *testing.T) {
	data := buildZip(t, [][2]string{
		{"a/b/index.html", "<html></html>"},
		{"a/b/other.txt", "x"},
	})

	desc := Analyze(data)
	if desc == nil {
		t.Fatal("Analyze() = nil, want file directory descriptor")
	}
	if desc.HasIndexPage {
		t.Error("HasIndexPage = true, want false for deeply nested index")
	}
	if !desc.IsFileDirectory {
		t.Error("IsFileDirectory = false, want true")
	}
}

func TestAnalyze_FileDirectoryWithoutIndex(t *testing.T) {
	data := buildZip(t, [][2]string{
		{"report.pdf", "%PDF-1.7"},
		{"data.csv", "a,b\n1,2"},
	})

	desc := Analyze(data)
	if desc == nil {
		t.Fatal("Analyze() = nil, want descriptor")
	}
	if desc.HasIndexPage {
		t.Error("HasIndexPage = true, want false")
	}
	if !desc.IsFileDirectory {
		t.Error("IsFileDirectory = false, want true")
	}
	if len(desc.Resources) != 2 {
		t.Errorf("len(Resources) = %d, want 2", len(desc.Resources))
	}
}

func TestAnalyze_EmptyArchiveNotASite(t *testing.T) {
	data := buildZip(t, nil)
	if desc := Analyze(data); desc != nil {
		t.Errorf("Analyze(empty archive) = %+v, want nil", desc)
	}
}

func TestAnalyze_HeadersFile(t *testing.T) {
	headers := "# comment line\n/admin/*\nContent-Type: text/html\nCache-Control: max-age=3600\n\nX-Frame-Options: DENY\n"
	data := buildZip(t, [][2]string{
		{"index.html", "<html><title>H</title></html>"},
		{"style.css", "body{}"},
		{"_headers", headers},
	})

	desc := Analyze(data)
	if desc == nil {
		t.Fatal("Analyze() = nil, want descriptor")
	}
	if desc.IsFileDirectory {
		t.Error("IsFileDirectory = true, want false")
	}
	// The control file counts as a resource like everything else in
	// the bundle.
	if len(desc.Resources) != 3 {
		t.Errorf("len(Resources) = %d, want 3 including _headers", len(desc.Resources))
	}

	want := map[string]string{
		"Content-Type":    "text/html",
		"Cache-Control":   "max-age=3600",
		"X-Frame-Options": "DENY",
	}
	if !reflect.DeepEqual(desc.CustomHeaders, want) {
		t.Errorf("CustomHeaders = %v, want %v", desc.CustomHeaders, want)
	}
}

func TestAnalyze_SinglePageHTML(t *testing.T) {
	html := []byte("<html><body>hi</body></html>")

	desc := Analyze(html)
	if desc == nil {
		t.Fatal("Analyze() = nil, want single-page descriptor")
	}
	if !desc.HasIndexPage {
		t.Error("HasIndexPage = false, want true")
	}
	if desc.IsFileDirectory {
		t.Error("IsFileDirectory = true, want false")
	}
	if desc.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", desc.Title, DefaultTitle)
	}
	if len(desc.Resources) != 1 {
		t.Fatalf("len(Resources) = %d, want 1", len(desc.Resources))
	}
	r := desc.Resources[0]
	if r.Path != "index.html" || r.ContentType != "text/html" || r.SizeBytes != int64(len(html)) {
		t.Errorf("synthetic resource = %+v", r)
	}
	if desc.CustomHeaders != nil {
		t.Errorf("CustomHeaders = %v, want nil", desc.CustomHeaders)
	}
}

func TestAnalyze_SinglePageTitlePreference(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"title tag", "<html><head><title>From Title</title></head><body><h1>From H1</h1></body></html>", "From Title"},
		{"h1 fallback", "<html><body><h1>From H1</h1></body></html>", "From H1"},
		{"default", "<html><body><p>nothing</p></body></html>", DefaultTitle},
	}

	for _, tt := range tests {
		desc := Analyze([]byte(tt.html))
		if desc == nil {
			t.Fatalf("%s: Analyze() = nil", tt.name)
		}
		if desc.Title != tt.want {
			t.Errorf("%s: Title = %q, want %q", tt.name, desc.Title, tt.want)
		}
	}
}

func TestAnalyze_NotASite(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("plain text, nothing structural"),
		{0x00, 0x01, 0x02, 0x03},
		[]byte("PK corrupt not really a zip"),
	}
	for _, in := range inputs {
		if desc := Analyze(in); desc != nil {
			t.Errorf("Analyze(%q) = %+v, want nil", in, desc)
		}
	}
}

func TestDirectories(t *testing.T) {
	data := buildZip(t, [][2]string{
		{"index.html", "<html></html>"},
		{"assets/css/main.css", "x"},
		{"assets/js/app.js", "x"},
		{"img/logo.png", "x"},
	})

	desc := Analyze(data)
	if desc == nil {
		t.Fatal("Analyze() = nil")
	}

	got := Directories(desc.Resources)
	want := []string{"assets", "assets/css", "assets/js", "img"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Directories() = %v, want %v", got, want)
	}
}

func TestParseHeaders_Malformed(t *testing.T) {
	got := parseHeaders([]byte("no colon here\n:\nkey:\n: value\n"))
	if got != nil {
		t.Errorf("parseHeaders(malformed) = %v, want nil", got)
	}
}

func TestTypeByExtension_Unknown(t *testing.T) {
	if got := TypeByExtension("file.xyzzy"); got != "application/octet-stream" {
		t.Errorf("TypeByExtension() = %q, want generic fallback", got)
	}
}
