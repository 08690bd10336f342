package classify

import (
	"testing"

	"github.com/dtnitsch/walrus-sweeper/models"
)

func TestCategorize_DeclaredTypes(t *testing.T) {
	tests := []struct {
		mimeType string
		want     models.Category
	}{
		{"text/html", models.CategoryWebsite},
		{"application/zip+site", models.CategoryWebsite},
		{"image/png", models.CategoryImage},
		{"image/jpeg", models.CategoryImage},
		{"video/mp4", models.CategoryVideo},
		{"audio/mpeg", models.CategoryAudio},
		{"application/pdf", models.CategoryDocument},
		{"application/msword", models.CategoryDocument},
		{"application/vnd.openxmlformats-officedocument.wordprocessingml.document", models.CategoryDocument},
		{"text/plain", models.CategoryDocument},
		{"text/css", models.CategoryDocument},
		{"application/zip", models.CategoryArchive},
		{"application/x-tar", models.CategoryArchive},
		{"application/x-7z-compressed", models.CategoryArchive},
		{"application/gzip", models.CategoryArchive},
		{"application/javascript", models.CategoryCode},
		{"application/json", models.CategoryCode},
		{"application/xml", models.CategoryCode},
		{"application/octet-stream", models.CategoryData},
		{"binary/data", models.CategoryData},
		{"something/else", models.CategoryUnknown},
		{"", models.CategoryUnknown}, // empty type, no bytes
	}

	for _, tt := range tests {
		if got := Categorize(tt.mimeType, nil); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.mimeType, got, tt.want)
		}
	}
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	if got := Categorize("Image/PNG", nil); got != models.CategoryImage {
		t.Errorf("Categorize(Image/PNG) = %q, want image", got)
	}
}

func TestFromSignature(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want models.Category
	}{
		{"html doctype", []byte("<!DOCTYPE html><html></html>"), models.CategoryWebsite},
		{"html tag", []byte("<html><body></body></html>"), models.CategoryWebsite},
		{"html deep in text", []byte("prefix text then <html> later"), models.CategoryWebsite},
		{"zip", []byte{0x50, 0x4B, 0x03, 0x04}, models.CategoryArchive},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, models.CategoryImage},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, models.CategoryImage},
		{"gif", []byte("GIF89a...."), models.CategoryImage},
		{"pdf", []byte("%PDF-1.7 ..."), models.CategoryDocument},
		{"json", []byte(`{"a": 1}`), models.CategoryCode},
		{"garbage", []byte{0x00, 0x01, 0x02}, models.CategoryUnknown},
		{"empty", nil, models.CategoryUnknown},
	}

	for _, tt := range tests {
		if got := FromSignature(tt.raw); got != tt.want {
			t.Errorf("FromSignature(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestCategorize_Total(t *testing.T) {
	known := map[models.Category]bool{}
	for _, c := range models.Categories {
		known[c] = true
	}

	inputs := []string{
		"text/html", "image/x", "video/x", "audio/x", "application/pdf",
		"application/zip", "application/json", "application/x", "x/y",
		"", "binary", "TEXT/PLAIN", "  text/html  ",
	}
	for _, in := range inputs {
		got := Categorize(in, nil)
		if !known[got] {
			t.Errorf("Categorize(%q) = %q, not a defined category", in, got)
		}
	}
}

func TestSubcategory(t *testing.T) {
	dir := &models.SiteDescriptor{IsFileDirectory: true}
	site := &models.SiteDescriptor{HasIndexPage: true}

	tests := []struct {
		category models.Category
		mimeType string
		site     *models.SiteDescriptor
		want     string
	}{
		{models.CategoryWebsite, "text/html", site, "Website"},
		{models.CategoryWebsite, "application/zip", dir, "File Directory"},
		{models.CategoryWebsite, "application/zip", nil, "ZIP Site"},
		{models.CategoryWebsite, "text/html", nil, "HTML Page"},
		{models.CategoryImage, "image/png", nil, "PNG"},
		{models.CategoryImage, "image/jpeg", nil, "JPEG"},
		{models.CategoryDocument, "application/pdf", nil, "PDF"},
		{models.CategoryArchive, "application/zip", nil, "ZIP"},
		{models.CategoryVideo, "video/mp4", nil, "MP4"},
		{models.CategoryCode, "application/json", nil, "JSON"},
		{models.CategoryData, "application/octet-stream", nil, ""},
	}

	for _, tt := range tests {
		got := Subcategory(tt.category, tt.mimeType, tt.site)
		if got != tt.want {
			t.Errorf("Subcategory(%q, %q) = %q, want %q", tt.category, tt.mimeType, got, tt.want)
		}
	}
}
