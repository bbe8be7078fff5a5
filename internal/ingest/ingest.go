package ingest

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/axewhyzed/get-that-phone/internal/model"
	"github.com/axewhyzed/get-that-phone/internal/scraper"
	"github.com/axewhyzed/get-that-phone/internal/store"
)

// sourceTag is the provenance tag recorded on every ingested detail row
const sourceTag = "91mobiles"

var (
	// ErrNoSpecs means the page parsed fine but yielded zero spec categories;
	// a page-shape mismatch, distinct from fetch or store faults.
	ErrNoSpecs = errors.New("no specs found on page")

	// ErrFetch wraps network failures so callers can tell them apart from
	// store failures.
	ErrFetch = errors.New("failed to fetch page")
)

// Fetcher retrieves the raw HTML of a catalog page
type Fetcher interface {
	Fetch(url string) (string, error)
}

// Summary reports what one successful ingestion produced
type Summary struct {
	PhoneID        string `json:"id"`
	Name           string `json:"name"`
	SpecCategories int    `json:"specs"`
	GalleryImages  int    `json:"images"`
}

// Service runs the extraction-and-reconciliation pipeline: fetch a page,
// extract specs and images, and merge the result into the store without
// producing duplicates across repeated runs.
type Service struct {
	store   store.Store
	fetcher Fetcher

	// Reconciliation is serialized per (brand, folder) key so two concurrent
	// ingestions of the same phone cannot interleave their delete/insert
	// sequences.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an ingestion service
func New(st store.Store, fetcher Fetcher) *Service {
	return &Service{
		store:   st,
		fetcher: fetcher,
		locks:   make(map[string]*sync.Mutex),
	}
}

// IngestURL fetches one document and runs the full pipeline against it
func (s *Service) IngestURL(brandName, pageURL, folderName string) (*Summary, error) {
	html, err := s.fetcher.Fetch(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	specs := scraper.ExtractSpecs(doc)
	images := scraper.ClassifyImages(doc)

	log.Debug().
		Str("url", pageURL).
		Int("categories", len(specs.Specs)).
		Int("gallery", len(images.Gallery)).
		Int("other", len(images.Other)).
		Msg("Extraction complete")

	return s.Reconcile(brandName, folderName, specs, images)
}

// Reconcile merges one extraction result into the store: get-or-create the
// brand, get-or-create the phone keyed by (brand, folder name), then fully
// replace its detail and gallery image rows.
func (s *Service) Reconcile(brandName, folderName string, specs *scraper.SpecResult, images *scraper.ImageResult) (*Summary, error) {
	// An extraction with zero usable categories is rejected before any store
	// mutation; persisting an empty detail record would clobber good data.
	if len(specs.Specs) == 0 {
		return nil, ErrNoSpecs
	}

	folder := folderName
	if folder == "" {
		folder = specs.Metadata[scraper.MetaPhoneName]
	}

	unlock := s.lock(brandName + "/" + folder)
	defer unlock()

	brand, err := s.store.GetBrandByName(brandName)
	if err != nil {
		return nil, fmt.Errorf("looking up brand: %w", err)
	}
	if brand == nil {
		brand = &model.Brand{
			ID:          uuid.NewString(),
			Name:        brandName,
			DisplayName: strings.TrimSpace(strings.TrimSuffix(brandName, "Phones")),
		}
		if err := s.store.CreateBrand(brand); err != nil {
			return nil, fmt.Errorf("creating brand: %w", err)
		}
		log.Info().Str("brand", brand.Name).Str("id", brand.ID).Msg("Created brand")
	}

	phone, err := s.store.GetPhoneByFolder(brand.ID, folder)
	if err != nil {
		return nil, fmt.Errorf("looking up phone: %w", err)
	}
	if phone == nil {
		name := specs.Metadata[scraper.MetaPhoneName]
		if name == "" {
			name = "Unknown"
		}
		phone = &model.Phone{
			ID:          uuid.NewString(),
			BrandID:     brand.ID,
			FolderName:  folder,
			Name:        name,
			Price:       specs.Metadata[scraper.MetaPrice],
			ReleaseDate: specs.Metadata[scraper.MetaReleaseDate],
		}
		if len(images.Gallery) > 0 {
			phone.FirstImage = images.Gallery[0].URL
		}
		if err := s.store.CreatePhone(phone); err != nil {
			return nil, fmt.Errorf("creating phone: %w", err)
		}
		log.Info().Str("phone", phone.Name).Str("id", phone.ID).Msg("Created phone")
	}
	// An existing phone keeps its scalar columns; only its detail and image
	// rows are refreshed below.

	detail := &model.PhoneDetail{
		PhoneID:  phone.ID,
		Specs:    specs.Specs,
		Metadata: specs.Metadata,
		Sources:  []string{sourceTag},
	}
	if err := s.store.ReplacePhoneDetail(detail); err != nil {
		return nil, fmt.Errorf("replacing phone detail: %w", err)
	}

	rows := make([]*model.PhoneImage, 0, len(images.Gallery))
	for i, img := range images.Gallery {
		alt := img.Alt
		if alt == "" {
			alt = phone.Name
		}
		rows = append(rows, &model.PhoneImage{
			PhoneID:    phone.ID,
			ImageURL:   img.URL,
			AltText:    alt,
			ImageType:  model.ImageTypeGallery,
			ImageIndex: i,
		})
	}
	if err := s.store.ReplacePhoneImages(phone.ID, rows); err != nil {
		return nil, fmt.Errorf("replacing phone images: %w", err)
	}

	summary := &Summary{
		PhoneID:        phone.ID,
		Name:           phone.Name,
		SpecCategories: len(specs.Specs),
		GalleryImages:  len(images.Gallery),
	}

	log.Info().
		Str("phone", summary.Name).
		Int("categories", summary.SpecCategories).
		Int("images", summary.GalleryImages).
		Msg("Ingestion complete")

	return summary, nil
}

// lock acquires the per-key reconciliation mutex and returns its release func
func (s *Service) lock(key string) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
