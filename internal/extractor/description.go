package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Amazon moves the description around; these are tried in order and the
// first container present on the page wins.
var descriptionSelectors = []string{
	"#productDescription",
	"#feature-bullets",
	"#aplus",
	".a-expander-content",
	"#bookDescription_feature_div",
}

// extractDescription returns the normalized multi-line description, or the
// feature bullets as a bulleted list when no dedicated container exists.
func (e *Extractor) extractDescription(doc *goquery.Document) string {
	for _, selector := range descriptionSelectors {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			return preserveFormatting(s)
		}
	}

	var b strings.Builder
	doc.Find("#feature-bullets li").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			b.WriteString("• ")
			b.WriteString(text)
			b.WriteString("\n")
		}
	})
	return b.String()
}
