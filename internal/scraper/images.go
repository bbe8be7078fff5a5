package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// imageHost is the CDN all retained images must come from
const imageHost = "91-img.com"

// Image is one classified image reference
type Image struct {
	Index int    `json:"index,omitempty"` // 1-based display order, gallery only
	URL   string `json:"url"`
	Alt   string `json:"alt,omitempty"`
	Type  string `json:"type"`
}

// ImageResult partitions a page's images into the ordered product gallery and
// everything else. No URL appears twice across the two sets.
type ImageResult struct {
	Gallery []Image `json:"gallery"`
	Other   []Image `json:"other"`
}

// ClassifyImages walks every image element in two passes of decreasing
// specificity, de-duplicating by source URL with first occurrence winning.
func ClassifyImages(doc *goquery.Document) (res *ImageResult) {
	res = &ImageResult{}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("image classification aborted mid-walk, returning partial result")
		}
	}()

	seen := make(map[string]bool)

	// Pass 1: gallery candidates via the slider class or product-name alt text
	doc.Find(`.sliderImage, img[alt*="Galaxy"], img[alt*="iPhone"]`).Each(func(_ int, img *goquery.Selection) {
		src := imageSrc(img)
		if src == "" || seen[src] || !strings.Contains(src, imageHost) {
			return
		}
		if !strings.Contains(src, "gallery") && !strings.Contains(src, "pictures") {
			return
		}
		alt, _ := img.Attr("alt")
		res.Gallery = append(res.Gallery, Image{
			Index: len(res.Gallery) + 1,
			URL:   src,
			Alt:   CleanText(alt),
			Type:  "gallery",
		})
		seen[src] = true
	})

	// Pass 2: every remaining image on the known host, minus noise assets
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := imageSrc(img)
		if src == "" || seen[src] || !strings.Contains(src, imageHost) {
			return
		}
		if strings.Contains(src, "sourceimg") || strings.Contains(src, "icon") {
			return
		}
		alt, _ := img.Attr("alt")
		res.Other = append(res.Other, Image{
			URL:  src,
			Alt:  CleanText(alt),
			Type: "other",
		})
		seen[src] = true
	})

	return res
}

// imageSrc resolves an image's source URL, falling back to the lazy-load
// data-src attribute when src is absent.
func imageSrc(img *goquery.Selection) string {
	if src, ok := img.Attr("src"); ok && src != "" {
		return src
	}
	src, _ := img.Attr("data-src")
	return src
}
