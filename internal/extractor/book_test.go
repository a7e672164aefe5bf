package extractor

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractBookDetailsFromDetailBullets(t *testing.T) {
	e := newTestExtractor()

	doc := bookDoc(t, `<div id="detailBullets_feature_div"><ul>
		<li><span>Publisher : No Starch Press; 2nd edition (March 3, 2019)</span></li>
		<li><span>Language : English</span></li>
		<li><span>Paperback : 312 pages</span></li>
	</ul></div>`)

	details := e.extractBookDetails(doc)
	assert.Equal(t, "No Starch Press", details.Publisher)
	assert.Equal(t, "March 3, 2019", details.PublicationDate)
	assert.Equal(t, "English", details.Language)
	assert.Equal(t, "312", details.PageCount)
}

func TestExtractBookDetailsExplicitPublicationDate(t *testing.T) {
	e := newTestExtractor()

	doc := bookDoc(t, `<div id="detailBullets_feature_div"><ul>
		<li><span>Publication date : June 15, 2021</span></li>
	</ul></div>`)

	details := e.extractBookDetails(doc)
	assert.Equal(t, "June 15, 2021", details.PublicationDate)
}

func TestExtractBookDetailsEditionNoteDoesNotClobberPublisher(t *testing.T) {
	e := newTestExtractor()

	// The Language row mentions "Publisher" in its edition note. It must
	// not overwrite the values taken from the real Publisher row, in
	// either row order.
	rows := []string{
		`<li><span>Publisher : Acme Press (January 1, 2020)</span></li>
		 <li><span>Language : Hebrew‏ (Publisher Edition)</span></li>`,
		`<li><span>Language : Hebrew‏ (Publisher Edition)</span></li>
		 <li><span>Publisher : Acme Press (January 1, 2020)</span></li>`,
	}

	for _, body := range rows {
		doc := bookDoc(t, `<div id="detailBullets_feature_div"><ul>`+body+`</ul></div>`)
		details := e.extractBookDetails(doc)
		assert.Equal(t, "Acme Press", details.Publisher)
		assert.Equal(t, "January 1, 2020", details.PublicationDate)
		assert.Equal(t, "Hebrew", details.Language)
	}
}

func TestExtractBookDetailsLanguageCleanup(t *testing.T) {
	e := newTestExtractor()

	tests := []struct {
		name     string
		row      string
		expected string
	}{
		{
			name:     "bidi marks and parenthetical stripped",
			row:      "Language : Hebrew‏ (Publisher Edition)",
			expected: "Hebrew",
		},
		{
			name:     "left mark and extra whitespace",
			row:      "Language : ‎English‎  ",
			expected: "English",
		},
		{
			name:     "residual colon removed",
			row:      "Language:: German",
			expected: "German",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := bookDoc(t, `<div id="detailBullets_feature_div"><ul><li><span>`+tt.row+`</span></li></ul></div>`)
			details := e.extractBookDetails(doc)
			assert.Equal(t, tt.expected, details.Language)
		})
	}
}

func TestExtractBookDetailsISBNDefaults(t *testing.T) {
	e := newTestExtractor()

	doc := bookDoc(t, `<div id="detailBullets_feature_div"></div>`)
	details := e.extractBookDetails(doc)

	// "N/A" rather than empty string, for exported-data compatibility
	assert.Equal(t, "N/A", details.ISBN10)
	assert.Equal(t, "N/A", details.ISBN13)
}

func TestExtractBookDetailsISBNFromAttributes(t *testing.T) {
	e := newTestExtractor()

	doc := bookDoc(t, `
		<div id="rpi-attribute-book_details-isbn10"><div class="rpi-attribute-value"><span> 1718500459 </span></div></div>
		<div id="rpi-attribute-book_details-isbn13"><div class="rpi-attribute-value"><span>978-1718500457</span></div></div>`)

	details := e.extractBookDetails(doc)
	assert.Equal(t, "1718500459", details.ISBN10)
	assert.Equal(t, "978-1718500457", details.ISBN13)
}

func TestExtractBookDetailsAuthors(t *testing.T) {
	e := newTestExtractor()

	doc := bookDoc(t, `<div class="author">
		<a class="a-link-normal" href="/a">First Author</a>
		<a class="a-link-normal" href="/b">Second Author</a>
	</div>`)

	details := e.extractBookDetails(doc)
	assert.Equal(t, []string{"First Author", "Second Author"}, details.Authors)
}

func TestExtractBookDetailsSingleAuthorFallback(t *testing.T) {
	e := newTestExtractor()

	doc := bookDoc(t, `<span class="author"><a href="/a">Lone Author</a></span>`)

	details := e.extractBookDetails(doc)
	assert.Equal(t, []string{"Lone Author"}, details.Authors)
}

func TestExtractBookDetailsLegacyProductDetailsTable(t *testing.T) {
	e := newTestExtractor()

	doc := bookDoc(t, `<table id="productDetailsTable"><tr><td class="content"><ul>
		<li><b>Publisher:</b> Legacy House (2001)</li>
		<li><b>Language:</b> French</li>
	</ul></td></tr></table>`)

	details := e.extractBookDetails(doc)
	assert.Equal(t, "Legacy House", details.Publisher)
	assert.Equal(t, "2001", details.PublicationDate)
	assert.Equal(t, "French", details.Language)
}
