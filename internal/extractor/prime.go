package extractor

import (
	"github.com/PuerkitoBio/goquery"
)

// No single Prime badge is authoritative; any of these indicators counts.
var primeSelectors = []string{
	".a-icon-prime",
	"#prime-meta-module",
	`[aria-label="Amazon Prime"]`,
	".a-icon.a-icon-prime",
	`[class*="prime-badge"]`,
}

func (e *Extractor) extractPrime(doc *goquery.Document) bool {
	for _, selector := range primeSelectors {
		if doc.Find(selector).Length() > 0 {
			return true
		}
	}
	return false
}
