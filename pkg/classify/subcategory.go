package classify

import (
	"strings"

	"github.com/dtnitsch/walrus-sweeper/models"
)

// subcategoryLabels maps type fragments to display labels, checked
// in order so more specific fragments win over generic ones.
var subcategoryLabels = []struct {
	fragment string
	label    string
}{
	{"png", "PNG"},
	{"jpeg", "JPEG"},
	{"jpg", "JPEG"},
	{"gif", "GIF"},
	{"webp", "WebP"},
	{"svg", "SVG"},
	{"mp4", "MP4"},
	{"webm", "WebM"},
	{"mpeg", "MPEG"},
	{"mp3", "MP3"},
	{"wav", "WAV"},
	{"pdf", "PDF"},
	{"msword", "Word"},
	{"openxml", "Office"},
	{"gzip", "GZIP"},
	{"zip", "ZIP"},
	{"tar", "TAR"},
	{"7z", "7-Zip"},
	{"rar", "RAR"},
	{"javascript", "JavaScript"},
	{"typescript", "TypeScript"},
	{"python", "Python"},
	{"json", "JSON"},
	{"xml", "XML"},
	{"csv", "CSV"},
	{"markdown", "Markdown"},
}

// Subcategory derives a best-effort display label for a blob. For
// website blobs the site descriptor decides between "Website" and
// "File Directory"; without structural analysis the declared type
// falls back to "ZIP Site" or "HTML Page".
func Subcategory(category models.Category, mimeType string, site *models.SiteDescriptor) string {
	if category == models.CategoryWebsite {
		if site != nil {
			if site.IsFileDirectory {
				return "File Directory"
			}
			return "Website"
		}
		if strings.Contains(strings.ToLower(mimeType), "zip") {
			return "ZIP Site"
		}
		return "HTML Page"
	}

	lower := strings.ToLower(mimeType)
	for _, entry := range subcategoryLabels {
		if strings.Contains(lower, entry.fragment) {
			return entry.label
		}
	}
	return ""
}
