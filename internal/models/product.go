package models

import (
	"time"
)

// Product is the normalized record produced by one extraction pass over a
// product page. Field names follow the exported JSON schema; optional
// sub-records are pointers so absent data serializes as null rather than
// being dropped, keeping the export schema stable.
type Product struct {
	Title       string       `json:"title"`
	ASIN        string       `json:"asin"`
	Description string       `json:"description"`
	Price       *float64     `json:"price"`
	ImageURL    string       `json:"imageUrl"`
	ProductURL  string       `json:"productUrl"`
	IsPrime     bool         `json:"isPrime"`
	ExtractedAt time.Time    `json:"extractedAt"`
	BookDetails *BookDetails `json:"bookDetails,omitempty"`
	Formats     *Formats     `json:"formats,omitempty"`
	Reviews     *Reviews     `json:"reviews,omitempty"`
}

// BookDetails holds book-specific metadata. ISBN fields default to the
// literal "N/A" when absent; this matches data exported by earlier versions
// and is kept for compatibility.
type BookDetails struct {
	Publisher       string   `json:"publisher"`
	PublicationDate string   `json:"publicationDate"`
	Language        string   `json:"language"`
	PageCount       string   `json:"pageCount"`
	ISBN10          string   `json:"isbn10"`
	ISBN13          string   `json:"isbn13"`
	Authors         []string `json:"authors"`
}

// Formats reports availability of alternate editions of the same title.
type Formats struct {
	Ebook     FormatAvailability `json:"ebook"`
	Audiobook FormatAvailability `json:"audiobook"`
}

// FormatAvailability describes one alternate format. URL and ASIN are nil
// when the format link could not be resolved, even if the format itself was
// detected on the page.
type FormatAvailability struct {
	Available bool    `json:"available"`
	URL       *string `json:"url"`
	ASIN      *string `json:"asin"`
}

// Reviews aggregates review summaries from the sources present on the page.
// Goodreads is nil wholesale when no Goodreads widget exists at all, as
// opposed to a summary with nil sub-fields.
type Reviews struct {
	Amazon    *ReviewSummary `json:"amazon"`
	Goodreads *ReviewSummary `json:"goodreads"`
}

// ReviewSummary is a rating/count pair from a single source.
type ReviewSummary struct {
	Rating       *float64 `json:"rating"`
	TotalReviews *int     `json:"totalReviews"`
}

// NewProduct creates a Product stamped with the current time.
func NewProduct(asin string) *Product {
	return &Product{
		ASIN:        asin,
		ExtractedAt: time.Now().UTC(),
	}
}
