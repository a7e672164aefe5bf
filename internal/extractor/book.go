package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/autoji/autoji/internal/models"
)

var (
	publisherPattern = regexp.MustCompile(`(?i)Publisher\s*:?\s*(.*?)(?:\(|;|$)`)
	pubDatePattern   = regexp.MustCompile(`(?i)Publication date\s*:?\s*([^;)]+)`)
	parenPattern     = regexp.MustCompile(`\(([^)]+)\)`)
	languagePattern  = regexp.MustCompile(`(?i)Language\s*:?\s*([^;)]+)`)
	pageCountPattern = regexp.MustCompile(`(?i)(\d+)\s*pages`)
	whitespaceRun    = regexp.MustCompile(`\s+`)

	// RLM/LRM direction marks leak into detail rows on localized pages.
	bidiMarks = strings.NewReplacer("‎", "", "‏", "")
)

// extractBookDetails reads the detail-bullet rows plus the dedicated ISBN
// and author elements. ISBNs default to "N/A" rather than the empty string;
// earlier exports used that value and downstream sheets depend on it.
func (e *Extractor) extractBookDetails(doc *goquery.Document) *models.BookDetails {
	details := &models.BookDetails{
		ISBN10: "N/A",
		ISBN13: "N/A",
	}

	rows := doc.Find("#detailBullets_feature_div li")
	if rows.Length() == 0 {
		rows = doc.Find("#productDetailsTable .content li")
	}

	rows.Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(bidiMarks.Replace(s.Text()))

		// Anchor the label to the row start; other rows may mention
		// "Publisher" in passing (a "(Publisher Edition)" note on the
		// Language row, say) and must not clobber earlier matches.
		if strings.HasPrefix(text, "Publisher") || strings.HasPrefix(text, "Publication date") {
			if details.Publisher == "" {
				if m := publisherPattern.FindStringSubmatch(text); m != nil {
					details.Publisher = strings.TrimSpace(m[1])
				}
			}
			if m := pubDatePattern.FindStringSubmatch(text); m != nil {
				details.PublicationDate = strings.TrimSpace(m[1])
			} else if details.PublicationDate == "" {
				if m := parenPattern.FindStringSubmatch(text); m != nil {
					details.PublicationDate = strings.TrimSpace(m[1])
				}
			}
		}

		if strings.Contains(text, "Language") {
			if m := languagePattern.FindStringSubmatch(text); m != nil {
				details.Language = cleanLanguage(m[1])
			}
		}

		if strings.Contains(text, "Print length") || strings.Contains(text, "pages") {
			if m := pageCountPattern.FindStringSubmatch(text); m != nil {
				details.PageCount = m[1]
			}
		}
	})

	if v := strings.TrimSpace(doc.Find("#rpi-attribute-book_details-isbn10 .rpi-attribute-value span").First().Text()); v != "" {
		details.ISBN10 = v
	}
	if v := strings.TrimSpace(doc.Find("#rpi-attribute-book_details-isbn13 .rpi-attribute-value span").First().Text()); v != "" {
		details.ISBN13 = v
	}

	doc.Find(".author .a-link-normal, .author .contributorNameID").Each(func(i int, s *goquery.Selection) {
		if name := strings.TrimSpace(s.Text()); name != "" {
			details.Authors = append(details.Authors, name)
		}
	})
	if len(details.Authors) == 0 {
		if name := strings.TrimSpace(doc.Find(".author a, .contributorNameID").First().Text()); name != "" {
			details.Authors = []string{name}
		}
	}

	return details
}

// cleanLanguage strips direction marks and stray colons, collapses
// whitespace, and drops any parenthetical edition note.
func cleanLanguage(raw string) string {
	s := bidiMarks.Replace(raw)
	s = strings.ReplaceAll(s, ":", "")
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "("); i != -1 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}
