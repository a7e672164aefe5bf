package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/autoji/autoji/internal/models"
)

var (
	ebookKeywords     = []string{"Kindle", "eBook"}
	audiobookKeywords = []string{"Audiobook", "Audio CD", "Audible"}
)

// extractFormats looks up alternate editions. The format-swatch region is
// authoritative when present; otherwise a looser page-wide link search runs.
func (e *Extractor) extractFormats(doc *goquery.Document, host string) *models.Formats {
	return &models.Formats{
		Ebook:     e.extractEbook(doc, host),
		Audiobook: e.extractAudiobook(doc, host),
	}
}

func (e *Extractor) extractEbook(doc *goquery.Document, host string) models.FormatAvailability {
	if f, ok := e.formatFromSwatch(doc, host, ebookKeywords); ok {
		return f
	}

	link := doc.Find(`a[href*="/dp/"][href*="Kindle"], a[href*="/dp/"][href*="kindle"]`).First()
	if link.Length() > 0 {
		f := models.FormatAvailability{Available: true}
		if href, ok := link.Attr("href"); ok {
			e.fillFormatLink(&f, host, href)
		}
		return f
	}

	return models.FormatAvailability{}
}

func (e *Extractor) extractAudiobook(doc *goquery.Document, host string) models.FormatAvailability {
	if f, ok := e.formatFromSwatch(doc, host, audiobookKeywords); ok {
		return f
	}

	hasSection := doc.Find("#audibleSample, .audible-section").Length() > 0
	link := doc.Find(`a[href*="/dp/"][href*="Audible"], a[href*="/dp/"][href*="audiobook"]`).First()
	if hasSection || link.Length() > 0 {
		f := models.FormatAvailability{Available: true}
		if href, ok := link.Attr("href"); ok {
			e.fillFormatLink(&f, host, href)
		}
		return f
	}

	return models.FormatAvailability{}
}

func (e *Extractor) formatFromSwatch(doc *goquery.Document, host string, keywords []string) (models.FormatAvailability, bool) {
	var found models.FormatAvailability
	var ok bool

	doc.Find("#tmmSwatches .swatchElement").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if !containsAny(s.Text(), keywords) {
			return true
		}
		found = models.FormatAvailability{Available: true}
		if href, exists := s.Find("a.a-button-text").First().Attr("href"); exists {
			e.fillFormatLink(&found, host, href)
		}
		ok = true
		return false
	})

	return found, ok
}

func (e *Extractor) fillFormatLink(f *models.FormatAvailability, host, href string) {
	m := e.asinHref.FindStringSubmatch(href)
	if m == nil {
		return
	}
	asin := m[1]
	u := fmt.Sprintf("https://%s/dp/%s/", host, asin)
	f.ASIN = &asin
	f.URL = &u
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
