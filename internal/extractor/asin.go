package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// getASIN resolves the product identifier through an ordered cascade. Each
// strategy runs only if the previous one yielded nothing, and the first
// match wins, so a URL-path ASIN always beats a data-asin attribute.
func (e *Extractor) getASIN(doc *goquery.Document, u *url.URL) string {
	// 1. URL path: /dp/{asin} or /gp/product/{asin}
	if m := e.asinPath.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}

	// 2. data-asin attribute anywhere on the page
	if asin, ok := doc.Find("[data-asin]").First().Attr("data-asin"); ok && asin != "" {
		return asin
	}

	// 3. hidden ASIN field of the add-to-cart form
	if asin, ok := doc.Find(`input[name="ASIN"], input[name="asin"]`).First().Attr("value"); ok && asin != "" {
		return asin
	}

	// 4. detail-list rows mentioning ASIN or ISBN-10
	var fromDetails string
	doc.Find("#detailBullets_feature_div li, #productDetails_detailBullets_sections1 tr, #productDetails_techSpec_section_1 tr").
		EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if !strings.Contains(text, "ASIN") && !strings.Contains(text, "ISBN-10") {
				return true
			}
			if m := e.asinToken.FindString(text); m != "" {
				fromDetails = m
				return false
			}
			return true
		})
	if fromDetails != "" {
		return fromDetails
	}

	// 5. raw markup, last resort
	if markup, err := doc.Html(); err == nil {
		if m := e.asinEmbedded.FindStringSubmatch(markup); m != nil {
			return m[1]
		}
	}

	return ""
}
