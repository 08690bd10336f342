// Package sitedetect determines whether raw blob bytes represent a
// renderable website: a zip bundle with an index page, a single HTML
// document, or a bare file collection. Corrupt or partially-written
// blobs are expected in a public object store, so every failure path
// degrades to "not a site" instead of returning an error.
package sitedetect

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/walrus-sweeper/models"
)

const (
	// DefaultTitle is used when neither a <title> nor an <h1> can be
	// extracted from the index page.
	DefaultTitle = "Untitled Site"

	indexPageName   = "index.html"
	headersFileName = "_headers"

	// maxEntryBytes caps how much of a single bundle entry is read
	// for title and header extraction.
	maxEntryBytes = 4 << 20
)

// Analyze inspects data and returns a site descriptor, or nil when
// the bytes do not form a site. It never fails.
func Analyze(data []byte) *models.SiteDescriptor {
	if len(data) == 0 {
		return nil
	}

	if desc := analyzeArchive(data); desc != nil {
		return desc
	}

	return analyzeSinglePage(data)
}

// analyzeArchive opens data as a zip bundle. The index page and the
// reserved _headers file are recognized at the bundle root or inside
// exactly one leading directory segment. An archive with neither an
// index page nor any resource is not a site.
func analyzeArchive(data []byte) *models.SiteDescriptor {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}

	var indexEntry, headersEntry *zip.File
	var resources []models.SiteResource

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := path.Clean(f.Name)
		if name == "." || strings.HasPrefix(name, "../") || path.IsAbs(name) {
			continue
		}

		resources = append(resources, models.SiteResource{
			Path:        name,
			ContentType: TypeByExtension(name),
			SizeBytes:   int64(f.UncompressedSize64),
		})

		depth := strings.Count(name, "/")
		if depth > 1 {
			continue
		}
		switch path.Base(name) {
		case indexPageName:
			if indexEntry == nil {
				indexEntry = f
			}
		case headersFileName:
			if headersEntry == nil {
				headersEntry = f
			}
		}
	}

	if indexEntry == nil && len(resources) == 0 {
		return nil
	}

	desc := &models.SiteDescriptor{Resources: resources}

	if indexEntry == nil {
		desc.IsFileDirectory = true
	} else {
		desc.HasIndexPage = true
		desc.Title = DefaultTitle
		if content, err := readEntry(indexEntry); err == nil {
			desc.Title = extractTitle(content)
			enrich(desc, content)
		}
	}

	if headersEntry != nil {
		if content, err := readEntry(headersEntry); err == nil {
			desc.CustomHeaders = parseHeaders(content)
		}
	}

	return desc
}

// analyzeSinglePage treats data as a standalone HTML document with
// one synthetic index.html resource covering the full byte length.
func analyzeSinglePage(data []byte) *models.SiteDescriptor {
	if !looksLikeHTMLDocument(data) {
		return nil
	}

	desc := &models.SiteDescriptor{
		HasIndexPage: true,
		Title:        extractTitle(data),
		Resources: []models.SiteResource{
			{Path: indexPageName, ContentType: "text/html", SizeBytes: int64(len(data))},
		},
	}
	enrich(desc, data)
	return desc
}

// looksLikeHTMLDocument checks for a doctype declaration, an opening
// <html tag, or an angle-bracket pattern with a closing tag.
func looksLikeHTMLDocument(data []byte) bool {
	trimmed := bytes.ToLower(bytes.TrimLeft(data, " \t\r\n"))
	if bytes.HasPrefix(trimmed, []byte("<!doctype")) {
		return true
	}
	if bytes.Contains(trimmed, []byte("<html")) {
		return true
	}
	return bytes.HasPrefix(trimmed, []byte("<")) && bytes.Contains(trimmed, []byte("</"))
}

// extractTitle pulls a display name from markup: the first <title>
// tag, then the first <h1>, then DefaultTitle.
func extractTitle(html []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return DefaultTitle
	}

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if heading := strings.TrimSpace(doc.Find("h1").First().Text()); heading != "" {
		return heading
	}
	return DefaultTitle
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxEntryBytes))
}

// Directories derives every strict path prefix of the resource
// paths, deduplicated and sorted lexicographically. Reported as
// auxiliary structural metadata, not stored on the descriptor.
func Directories(resources []models.SiteResource) []string {
	seen := map[string]bool{}
	for _, r := range resources {
		parts := strings.Split(r.Path, "/")
		for i := 1; i < len(parts); i++ {
			seen[strings.Join(parts[:i], "/")] = true
		}
	}

	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}
