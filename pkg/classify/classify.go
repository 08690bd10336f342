// Package classify maps a blob's declared or sniffed content type to
// one of the fixed categories, with a byte-signature fallback when no
// type is available. Pure and total: every input maps to exactly one
// category.
package classify

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/dtnitsch/walrus-sweeper/models"
)

// rule pairs a type predicate with the category it selects. Rules
// are evaluated top to bottom; first match wins. New types are table
// additions, not new branches.
type rule struct {
	match    func(mimeType string) bool
	category models.Category
}

func typeContains(substrings ...string) func(string) bool {
	return func(mimeType string) bool {
		for _, s := range substrings {
			if strings.Contains(mimeType, s) {
				return true
			}
		}
		return false
	}
}

func typePrefix(prefix string) func(string) bool {
	return func(mimeType string) bool {
		return strings.HasPrefix(mimeType, prefix)
	}
}

var rules = []rule{
	{func(mt string) bool {
		if mt == "text/html" {
			return true
		}
		// Declared type marking a zip bundle as a site bundle.
		return strings.Contains(mt, "zip") && strings.Contains(mt, "site")
	}, models.CategoryWebsite},
	{typePrefix("image/"), models.CategoryImage},
	{typePrefix("video/"), models.CategoryVideo},
	{typePrefix("audio/"), models.CategoryAudio},
	{typeContains("pdf", "document", "msword", "openxml"), models.CategoryDocument},
	{typePrefix("text/"), models.CategoryDocument},
	{typeContains("zip", "tar", "rar", "7z", "gzip"), models.CategoryArchive},
	{typeContains("javascript", "typescript", "python", "json", "xml"), models.CategoryCode},
	{typeContains("application/", "binary"), models.CategoryData},
}

// Categorize maps a content type to a category. When mimeType is
// empty the raw bytes are scanned for known signatures instead.
// Site-ness of zip archives is resolved later by the site analyzer,
// not here: an unhinted zip stays CategoryArchive.
func Categorize(mimeType string, raw []byte) models.Category {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if mimeType == "" {
		return FromSignature(raw)
	}

	for _, r := range rules {
		if r.match(mimeType) {
			return r.category
		}
	}
	return models.CategoryUnknown
}

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	gifMagic  = []byte("GIF8")
	pdfMagic  = []byte("%PDF")
	zipMagic  = []byte{0x50, 0x4B}
)

// FromSignature categorizes raw bytes by magic numbers and cheap
// structural probes. Returns CategoryUnknown when nothing matches.
func FromSignature(raw []byte) models.Category {
	if len(raw) == 0 {
		return models.CategoryUnknown
	}

	if hasHTMLPrefix(raw) {
		return models.CategoryWebsite
	}

	switch {
	case bytes.HasPrefix(raw, zipMagic):
		return models.CategoryArchive
	case bytes.HasPrefix(raw, jpegMagic),
		bytes.HasPrefix(raw, pngMagic),
		bytes.HasPrefix(raw, gifMagic):
		return models.CategoryImage
	case bytes.HasPrefix(raw, pdfMagic):
		return models.CategoryDocument
	}

	if json.Valid(raw) {
		return models.CategoryCode
	}

	lower := bytes.ToLower(raw)
	if bytes.Contains(lower, []byte("<html")) || bytes.Contains(lower, []byte("<!doctype")) {
		return models.CategoryWebsite
	}

	return models.CategoryUnknown
}

func hasHTMLPrefix(raw []byte) bool {
	trimmed := bytes.ToLower(bytes.TrimLeft(raw, " \t\r\n"))
	return bytes.HasPrefix(trimmed, []byte("<!doctype html")) ||
		bytes.HasPrefix(trimmed, []byte("<html"))
}
