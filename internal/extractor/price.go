package extractor

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var priceSelectors = []string{
	".a-price .a-offscreen",
	"#priceblock_ourprice",
	"#priceblock_dealprice",
	".a-price-whole",
	"#price_inside_buybox",
	"#corePrice_feature_div .a-offscreen",
	"#newBuyBoxPrice",
}

// extractPrice returns the first parseable price on the page, as a bare
// decimal with currency symbol and thousands separators stripped. Text
// without a currency marker is skipped so stray numbers (ratings, counts)
// are never mistaken for a price. Returns nil when nothing parses.
func (e *Extractor) extractPrice(doc *goquery.Document) *float64 {
	text := e.priceText(doc)
	if text == "" {
		return nil
	}

	numeric := e.priceNumber.FindString(text)
	if numeric == "" {
		return nil
	}

	numeric = strings.ReplaceAll(numeric, ",", "")
	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return nil
	}

	return &value
}

func (e *Extractor) priceText(doc *goquery.Document) string {
	for _, selector := range priceSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text != "" && strings.Contains(text, "$") {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}
