package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/autoji/autoji/internal/models"
)

var (
	decimalPattern = regexp.MustCompile(`[0-9.]+`)
	countPattern   = regexp.MustCompile(`[0-9,]+`)
)

// extractReviews aggregates the Amazon review summary and, when the widget
// is present, the Goodreads one.
func (e *Extractor) extractReviews(doc *goquery.Document) *models.Reviews {
	amazon := &models.ReviewSummary{}

	ratingText := doc.Find("#acrPopover .a-icon-alt").First().Text()
	if m := decimalPattern.FindString(ratingText); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			amazon.Rating = &v
		}
	}

	countText := doc.Find("#acrCustomerReviewText").First().Text()
	if v, ok := parseCount(countText); ok {
		amazon.TotalReviews = &v
	}

	return &models.Reviews{
		Amazon:    amazon,
		Goodreads: e.extractGoodreads(doc),
	}
}

// extractGoodreads returns nil when no Goodreads element exists at all.
// A present widget with unparseable values still yields a summary, with
// nil sub-fields.
func (e *Extractor) extractGoodreads(doc *goquery.Document) *models.ReviewSummary {
	rows := doc.Find(".gr-review-rating-text")
	countEl := doc.Find(".gr-review-count-text span")
	if rows.Length() == 0 && countEl.Length() == 0 {
		return nil
	}

	summary := &models.ReviewSummary{}

	var values []float64
	rows.Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Find("span").First().Text())
		if m := decimalPattern.FindString(text); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil {
				values = append(values, v)
			}
		}
	})
	if len(values) > 0 {
		var sum float64
		for _, v := range values {
			sum += v
		}
		// average across all visible rating rows, one decimal place
		mean := math.Round(sum/float64(len(values))*10) / 10
		summary.Rating = &mean
	}

	if v, ok := parseCount(countEl.First().Text()); ok {
		summary.TotalReviews = &v
	}

	return summary
}

func parseCount(text string) (int, bool) {
	m := countPattern.FindString(strings.TrimSpace(text))
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}
