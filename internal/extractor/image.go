package extractor

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var mainImageSelectors = []string{
	"#landingImage",
	"#imgBlkFront",
	"#ebooksImgBlkFront",
	"#main-image",
}

var galleryImageSelectors = []string{
	".imgTagWrapper img",
	".image-stretch-vertical img",
	"#imageBlock img",
	"#main-image-container img",
}

// extractImage returns the main product image URL. The dynamic-image map is
// preferred over the plain src because it carries the full-resolution URL.
func (e *Extractor) extractImage(doc *goquery.Document) string {
	var main *goquery.Selection
	for _, selector := range mainImageSelectors {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			main = s
			break
		}
	}

	if main != nil {
		for _, attr := range []string{"data-a-dynamic-image", "data-old-hires", "src"} {
			value, ok := main.Attr(attr)
			if !ok || value == "" {
				continue
			}
			if attr == "data-a-dynamic-image" {
				if u := firstDynamicImageURL(value); u != "" {
					return u
				}
				continue
			}
			return value
		}
	}

	for _, selector := range galleryImageSelectors {
		if src, ok := doc.Find(selector).First().Attr("src"); ok && src != "" {
			return src
		}
	}

	return ""
}

// firstDynamicImageURL picks the first key of the data-a-dynamic-image JSON
// object in document order. json.Unmarshal into a map would randomize the
// choice, so the token stream is read directly.
func firstDynamicImageURL(raw string) string {
	dec := json.NewDecoder(strings.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return ""
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ""
	}

	tok, err = dec.Token()
	if err != nil {
		return ""
	}
	if key, ok := tok.(string); ok {
		return key
	}
	return ""
}
