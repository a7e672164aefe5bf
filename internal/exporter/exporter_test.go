package exporter

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autoji/autoji/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func testProduct() *models.Product {
	return &models.Product{
		Title:       "Test Product",
		ASIN:        "B000000001",
		Description: "A plain description",
		Price:       floatPtr(24.99),
		ImageURL:    "https://example.com/img.jpg",
		ProductURL:  "https://www.amazon.com/dp/B000000001",
		IsPrime:     true,
		ExtractedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	data, err := ToJSON([]*models.Product{testProduct()})
	require.NoError(t, err)

	var decoded []*models.Product
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Test Product", decoded[0].Title)
	assert.Equal(t, 24.99, *decoded[0].Price)
}

func TestToJSONNilProducesEmptyArray(t *testing.T) {
	data, err := ToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestToCSVHeaderAndRow(t *testing.T) {
	out := ToCSV([]*models.Product{testProduct()})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Title,Description,Price,Image URL,ASIN,Product URL,Prime,Extracted At", lines[0])
	assert.Equal(t,
		`"Test Product","A plain description",24.99,"https://example.com/img.jpg","B000000001","https://www.amazon.com/dp/B000000001","Yes","2024-01-02T03:04:05Z"`,
		lines[1])
}

func TestToCSVEmptyList(t *testing.T) {
	assert.Equal(t, "", ToCSV(nil))
	assert.Equal(t, "", ToCSV([]*models.Product{}))
}

func TestToCSVMissingPrice(t *testing.T) {
	p := testProduct()
	p.Price = nil
	p.IsPrime = false

	out := ToCSV([]*models.Product{p})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"A plain description",,"https://example.com/img.jpg"`)
	assert.Contains(t, lines[1], `"No"`)
}

func TestToCSVEscapingRoundTrip(t *testing.T) {
	p := testProduct()
	p.Description = "First line\nHe said \"great\" twice\nLast line"

	out := ToCSV([]*models.Product{p})

	// Each record stays on a single physical line.
	require.Len(t, strings.Split(out, "\n"), 2)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	restored := strings.ReplaceAll(records[1][1], `\n`, "\n")
	assert.Equal(t, p.Description, restored)
}

func TestToCSVMultipleRows(t *testing.T) {
	first := testProduct()
	second := testProduct()
	second.ASIN = "B000000002"
	second.Title = "Other"

	out := ToCSV([]*models.Product{first, second})

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "B000000001", records[1][4])
	assert.Equal(t, "B000000002", records[2][4])
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, "amazon_products_2024-01-02T03-04-05Z.csv",
		Filename("amazon_products", "csv", at))
	assert.Equal(t, "amazon_products_2024-01-02T03-04-05Z.json",
		Filename("amazon_products", "json", at))
}
