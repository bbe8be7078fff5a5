package scraper

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Metadata keys produced by ExtractSpecs
const (
	MetaPhoneName   = "Phone Name"
	MetaReleaseDate = "Release Date"
	MetaPrice       = "Price"
)

// specSuffix marks a tbody as a specification block, e.g. "camera-features-specs"
const specSuffix = "-specs"

// SpecResult is the two-part record recovered from a device page: free-form
// metadata plus category -> attribute -> value spec tables.
type SpecResult struct {
	Metadata map[string]string            `json:"metadata"`
	Specs    map[string]map[string]string `json:"specs"`
}

// ExtractSpecs walks the document and accumulates metadata and categorized
// spec tables. It never fails: malformed fragments are skipped and whatever
// was accumulated so far is returned.
func ExtractSpecs(doc *goquery.Document) (res *SpecResult) {
	res = &SpecResult{
		Metadata: make(map[string]string),
		Specs:    make(map[string]map[string]string),
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("spec extraction aborted mid-walk, returning partial result")
		}
	}()

	if name := CleanText(doc.Find("h1.prd_title, h1").First().Text()); name != "" {
		res.Metadata[MetaPhoneName] = name
	}

	// Release date lives in a data attribute, not element text
	if raw, ok := doc.Find("#release-cal").Attr("data-content"); ok {
		if date := CleanText(raw); date != "" {
			res.Metadata[MetaReleaseDate] = date
		}
	}

	if price := CleanText(doc.Find(".pricesection_cntr, .storeprices").First().Text()); price != "" {
		res.Metadata[MetaPrice] = price
	}

	doc.Find(`tbody[id$="-specs"]`).Each(func(_ int, tbody *goquery.Selection) {
		id, _ := tbody.Attr("id")
		if id == "" {
			return
		}

		category := categoryFromID(id)

		// An explicit category header on the enclosing section wins over the
		// name derived from the tbody id.
		if header := CleanText(tbody.Closest("section").Find("h2.key-spec-ttl").First().Text()); header != "" {
			category = header
		}

		rows := res.Specs[category]
		if rows == nil {
			rows = make(map[string]string)
			res.Specs[category] = rows
		}

		tbody.Find("tr").Each(func(_ int, row *goquery.Selection) {
			name := CleanText(row.Find("td.spl_heading").Text())
			value := CleanText(row.Find("td.spl_text").Text())
			// Rows missing either side are skipped, not errors
			if name != "" && value != "" {
				rows[name] = value
			}
		})
	})

	// Drop categories whose tables produced no valid rows
	for category, rows := range res.Specs {
		if len(rows) == 0 {
			delete(res.Specs, category)
		}
	}

	return res
}

// categoryFromID derives a fallback category name from a spec tbody id:
// "camera-features-specs" -> "Camera Features".
func categoryFromID(id string) string {
	name := strings.TrimSuffix(id, specSuffix)
	name = strings.ReplaceAll(name, "&amp;", "&")
	name = strings.ReplaceAll(name, "-", " ")

	words := strings.Fields(name)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
