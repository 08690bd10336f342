package sitedetect

import (
	"bytes"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/walrus-sweeper/models"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"
)

// minDetectableChars is the least amount of visible text worth
// running language detection on.
const minDetectableChars = 40

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Spanish,
				lingua.French,
				lingua.German,
				lingua.Portuguese,
				lingua.Russian,
				lingua.Chinese,
				lingua.Japanese,
				lingua.Korean,
			).
			Build()
	})
	return detector
}

// syntheticPageURL satisfies readability's need for a base URL;
// blobs have no address of their own.
var syntheticPageURL, _ = url.Parse("https://blob.invalid/index.html")

// enrich adds best-effort excerpt and language metadata to a
// descriptor from its index page markup. Enrichment failures leave
// the descriptor untouched; structural analysis already succeeded.
func enrich(desc *models.SiteDescriptor, indexHTML []byte) {
	text := ""

	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(indexHTML), syntheticPageURL)
	if err == nil {
		desc.Excerpt = strings.TrimSpace(article.Excerpt)
		text = article.TextContent
	}

	if strings.TrimSpace(text) == "" {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(indexHTML))
		if err != nil {
			return
		}
		text = doc.Text()
	}

	text = strings.TrimSpace(text)
	if len(text) < minDetectableChars {
		return
	}

	if language, ok := languageDetector().DetectLanguageOf(text); ok {
		desc.Language = strings.ToLower(language.IsoCode639_1().String())
	}
}
