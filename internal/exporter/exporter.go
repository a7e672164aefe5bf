package exporter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/autoji/autoji/internal/models"
)

// Column order is fixed; spreadsheets built on earlier exports rely on it.
var csvHeader = []string{
	"Title", "Description", "Price", "Image URL",
	"ASIN", "Product URL", "Prime", "Extracted At",
}

var filenameSafe = strings.NewReplacer(":", "-", ".", "-")

// ToJSON renders the product list as a pretty-printed array, values
// unmodified.
func ToJSON(products []*models.Product) ([]byte, error) {
	if products == nil {
		products = []*models.Product{}
	}
	return json.MarshalIndent(products, "", "  ")
}

// ToCSV renders the product list with the fixed column order. String fields
// are double-quoted with internal quotes doubled; description newlines are
// escaped as a literal backslash-n so each record stays on one line. Price
// is a bare number, or empty when unknown.
func ToCSV(products []*models.Product) string {
	if len(products) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteString("\n")

	for i, p := range products {
		fields := []string{
			quote(p.Title),
			quote(strings.ReplaceAll(p.Description, "\n", `\n`)),
			priceField(p.Price),
			quote(p.ImageURL),
			quote(p.ASIN),
			quote(p.ProductURL),
			quote(primeField(p.IsPrime)),
			quote(p.ExtractedAt.Format(time.RFC3339)),
		}
		b.WriteString(strings.Join(fields, ","))
		if i < len(products)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Filename builds an export filename of the form
// {prefix}_{timestamp}.{ext}, with characters that trip up downloads
// (':' and '.') replaced by '-'.
func Filename(prefix, ext string, t time.Time) string {
	ts := filenameSafe.Replace(t.UTC().Format(time.RFC3339))
	return fmt.Sprintf("%s_%s.%s", prefix, ts, ext)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func priceField(price *float64) string {
	if price == nil {
		return ""
	}
	return strconv.FormatFloat(*price, 'f', -1, 64)
}

func primeField(isPrime bool) string {
	if isPrime {
		return "Yes"
	}
	return "No"
}
