package extractor

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/autoji/autoji/internal/models"
)

var (
	// ErrNotProductPage means the document shows none of the signals of a
	// product detail page. No partial record is produced.
	ErrNotProductPage = errors.New("not a product page")

	// ErrMissingASIN means the page looked like a product page but no
	// identifier could be resolved through the full cascade.
	ErrMissingASIN = errors.New("could not identify product ASIN")
)

const defaultHost = "www.amazon.com"

// Extractor turns a parsed Amazon product page into a models.Product.
// Every field is extracted through its own ordered strategy cascade; a miss
// on any single field degrades to that field's default and never fails the
// whole extraction. Only the page-level precondition and an unresolvable
// ASIN abort.
type Extractor struct {
	logger *slog.Logger

	asinToken    *regexp.Regexp
	asinPath     *regexp.Regexp
	asinEmbedded *regexp.Regexp
	asinHref     *regexp.Regexp
	priceNumber  *regexp.Regexp
}

// New creates an Extractor with all patterns compiled up front.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger:       logger.With("component", "extractor"),
		asinToken:    regexp.MustCompile(`[A-Z0-9]{10}`),
		asinPath:     regexp.MustCompile(`/(?:dp|gp/product)/([A-Z0-9]{10})`),
		asinEmbedded: regexp.MustCompile(`"ASIN":"([A-Z0-9]{10})"`),
		asinHref:     regexp.MustCompile(`/dp/([A-Z0-9]{10})`),
		priceNumber:  regexp.MustCompile(`[\d.,]+`),
	}
}

// ExtractFromHTML parses raw page markup and extracts from it.
func (e *Extractor) ExtractFromHTML(html, pageURL string) (*models.Product, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return e.Extract(doc, pageURL)
}

// Extract builds a Product from the document. pageURL is the address the
// document was rendered from; it feeds the identifier cascade, book-page
// detection, and the canonical product URL host.
func (e *Extractor) Extract(doc *goquery.Document, pageURL string) (*models.Product, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		u = &url.URL{}
	}

	if !e.isProductPage(doc, u) {
		return nil, ErrNotProductPage
	}

	asin := e.getASIN(doc, u)
	if asin == "" {
		return nil, ErrMissingASIN
	}

	host := u.Hostname()
	if host == "" {
		host = defaultHost
	}

	product := models.NewProduct(asin)
	product.ProductURL = fmt.Sprintf("https://%s/dp/%s", host, asin)

	product.Title = strings.TrimSpace(doc.Find("#productTitle").First().Text())
	if product.Title == "" {
		e.logger.Warn("product title not found", "asin", asin)
	}

	product.Description = e.extractDescription(doc)
	product.Price = e.extractPrice(doc)
	if product.Price == nil {
		e.logger.Warn("price not found", "asin", asin)
	}

	product.ImageURL = e.extractImage(doc)
	if product.ImageURL == "" {
		e.logger.Warn("main image not found", "asin", asin)
	}

	product.IsPrime = e.extractPrime(doc)
	product.Reviews = e.extractReviews(doc)
	product.Formats = e.extractFormats(doc, host)

	if isBookPage(u) {
		product.BookDetails = e.extractBookDetails(doc)
	}

	return product, nil
}

// isProductPage requires a title element, or a product container together
// with a resolvable identifier.
func (e *Extractor) isProductPage(doc *goquery.Document, u *url.URL) bool {
	hasTitle := doc.Find("#productTitle").Length() > 0
	if hasTitle {
		return true
	}

	hasContainer := doc.Find("#dp-container, #dp, #ppd").Length() > 0
	hasASIN := doc.Find("[data-asin]").Length() > 0 || e.getASIN(doc, u) != ""

	return hasContainer && hasASIN
}

func isBookPage(u *url.URL) bool {
	return strings.Contains(u.Path, "/dp/") || strings.Contains(u.Path, "/gp/product/")
}
