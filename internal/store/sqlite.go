package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/axewhyzed/get-that-phone/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore manages catalog data using a SQLite database
type SQLiteStore struct {
	db      *sql.DB
	mu      sync.RWMutex
	dataDir string
}

// NewSQLite creates a new SQLiteStore instance
func NewSQLite(dataDir string) (*SQLiteStore, error) {
	dbPath := filepath.Join(dataDir, "phones.db")

	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Open database with WAL mode and foreign keys enabled
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		dataDir: dataDir,
	}

	// Run migrations
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// migrate creates tables and indexes
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS brands (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS phones (
		id TEXT PRIMARY KEY,
		brand_id TEXT NOT NULL,
		folder_name TEXT NOT NULL,
		name TEXT NOT NULL,
		price TEXT,
		release_date TEXT,
		first_image TEXT,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (brand_id) REFERENCES brands(id) ON DELETE CASCADE,
		UNIQUE (brand_id, folder_name)
	);

	CREATE TABLE IF NOT EXISTS phone_details (
		phone_id TEXT PRIMARY KEY,
		specs TEXT NOT NULL,
		metadata TEXT NOT NULL,
		sources TEXT NOT NULL,
		updated_at INTEGER NOT NULL,
		FOREIGN KEY (phone_id) REFERENCES phones(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS phone_images (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		phone_id TEXT NOT NULL,
		image_url TEXT NOT NULL,
		alt_text TEXT,
		image_type TEXT NOT NULL,
		image_index INTEGER NOT NULL,
		FOREIGN KEY (phone_id) REFERENCES phones(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_phones_brand_id ON phones(brand_id);
	CREATE INDEX IF NOT EXISTS idx_phone_images_phone_id ON phone_images(phone_id, image_type, image_index);
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetBrandByName returns a brand by its unique name, or nil when absent
func (s *SQLiteStore) GetBrandByName(name string) (*model.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := &model.Brand{}
	err := s.db.QueryRow(`
		SELECT id, name, display_name FROM brands WHERE name = ?
	`, name).Scan(&b.ID, &b.Name, &b.DisplayName)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query brand: %w", err)
	}

	return b, nil
}

// CreateBrand inserts a new brand
func (s *SQLiteStore) CreateBrand(brand *model.Brand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO brands (id, name, display_name) VALUES (?, ?, ?)
	`, brand.ID, brand.Name, brand.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to insert brand: %w", err)
	}

	return nil
}

// ListBrands returns all brands ordered by display name
func (s *SQLiteStore) ListBrands() ([]*model.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, display_name FROM brands ORDER BY display_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query brands: %w", err)
	}
	defer rows.Close()

	brands := []*model.Brand{}
	for rows.Next() {
		b := &model.Brand{}
		if err := rows.Scan(&b.ID, &b.Name, &b.DisplayName); err != nil {
			return nil, err
		}
		brands = append(brands, b)
	}

	return brands, rows.Err()
}

// GetPhoneByFolder returns the phone identified by (brand, folder name),
// or nil when absent
func (s *SQLiteStore) GetPhoneByFolder(brandID, folderName string) (*model.Phone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, err := s.scanPhone(s.db.QueryRow(`
		SELECT id, brand_id, folder_name, name, price, release_date, first_image, created_at
		FROM phones WHERE brand_id = ? AND folder_name = ?
	`, brandID, folderName))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query phone: %w", err)
	}

	return p, nil
}

// CreatePhone inserts a new phone
func (s *SQLiteStore) CreatePhone(phone *model.Phone) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if phone.CreatedAt.IsZero() {
		phone.CreatedAt = time.Now()
	}

	_, err := s.db.Exec(`
		INSERT INTO phones (id, brand_id, folder_name, name, price, release_date, first_image, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, phone.ID, phone.BrandID, phone.FolderName, phone.Name,
		nullable(phone.Price), nullable(phone.ReleaseDate), nullable(phone.FirstImage),
		phone.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert phone: %w", err)
	}

	return nil
}

// ListPhonesByBrand returns a brand's phones ordered by name
func (s *SQLiteStore) ListPhonesByBrand(brandID string) ([]*model.Phone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, brand_id, folder_name, name, price, release_date, first_image, created_at
		FROM phones WHERE brand_id = ?
		ORDER BY name ASC
	`, brandID)
	if err != nil {
		return nil, fmt.Errorf("failed to query phones: %w", err)
	}
	defer rows.Close()

	phones := []*model.Phone{}
	for rows.Next() {
		p, err := s.scanPhone(rows)
		if err != nil {
			return nil, err
		}
		phones = append(phones, p)
	}

	return phones, rows.Err()
}

// GetPhoneDetail returns the detail row for a phone, or nil when absent
func (s *SQLiteStore) GetPhoneDetail(phoneID string) (*model.PhoneDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := &model.PhoneDetail{PhoneID: phoneID}
	var specsJSON, metadataJSON, sourcesJSON string
	var updated int64

	err := s.db.QueryRow(`
		SELECT specs, metadata, sources, updated_at FROM phone_details WHERE phone_id = ?
	`, phoneID).Scan(&specsJSON, &metadataJSON, &sourcesJSON, &updated)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query phone detail: %w", err)
	}

	if err := json.Unmarshal([]byte(specsJSON), &d.Specs); err != nil {
		return nil, fmt.Errorf("failed to decode specs: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &d.Metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &d.Sources); err != nil {
		return nil, fmt.Errorf("failed to decode sources: %w", err)
	}
	d.UpdatedAt = time.Unix(updated, 0)

	return d, nil
}

// ReplacePhoneDetail deletes any existing detail row for the phone and
// inserts the new one, atomically
func (s *SQLiteStore) ReplacePhoneDetail(detail *model.PhoneDetail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	specsJSON, err := json.Marshal(detail.Specs)
	if err != nil {
		return fmt.Errorf("failed to encode specs: %w", err)
	}
	metadataJSON, err := json.Marshal(detail.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	sourcesJSON, err := json.Marshal(detail.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode sources: %w", err)
	}

	if detail.UpdatedAt.IsZero() {
		detail.UpdatedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM phone_details WHERE phone_id = ?`, detail.PhoneID); err != nil {
		return fmt.Errorf("failed to delete phone detail: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO phone_details (phone_id, specs, metadata, sources, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, detail.PhoneID, string(specsJSON), string(metadataJSON), string(sourcesJSON),
		detail.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert phone detail: %w", err)
	}

	return tx.Commit()
}

// ListPhoneImages returns a phone's images ordered by type then index
func (s *SQLiteStore) ListPhoneImages(phoneID string) ([]*model.PhoneImage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT phone_id, image_url, alt_text, image_type, image_index
		FROM phone_images WHERE phone_id = ?
		ORDER BY image_type ASC, image_index ASC
	`, phoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to query phone images: %w", err)
	}
	defer rows.Close()

	images := []*model.PhoneImage{}
	for rows.Next() {
		img := &model.PhoneImage{}
		var alt sql.NullString
		if err := rows.Scan(&img.PhoneID, &img.ImageURL, &alt, &img.ImageType, &img.ImageIndex); err != nil {
			return nil, err
		}
		if alt.Valid {
			img.AltText = alt.String
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

// ReplacePhoneImages deletes all existing image rows for the phone and
// inserts the fresh set, atomically, preserving the given order
func (s *SQLiteStore) ReplacePhoneImages(phoneID string, images []*model.PhoneImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM phone_images WHERE phone_id = ?`, phoneID); err != nil {
		return fmt.Errorf("failed to delete phone images: %w", err)
	}

	for _, img := range images {
		_, err := tx.Exec(`
			INSERT INTO phone_images (phone_id, image_url, alt_text, image_type, image_index)
			VALUES (?, ?, ?, ?, ?)
		`, phoneID, img.ImageURL, nullable(img.AltText), string(img.ImageType), img.ImageIndex)
		if err != nil {
			return fmt.Errorf("failed to insert phone image: %w", err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (s *SQLiteStore) scanPhone(row scanner) (*model.Phone, error) {
	p := &model.Phone{}
	var price, releaseDate, firstImage sql.NullString
	var created int64

	err := row.Scan(&p.ID, &p.BrandID, &p.FolderName, &p.Name,
		&price, &releaseDate, &firstImage, &created)
	if err != nil {
		return nil, err
	}

	if price.Valid {
		p.Price = price.String
	}
	if releaseDate.Valid {
		p.ReleaseDate = releaseDate.String
	}
	if firstImage.Valid {
		p.FirstImage = firstImage.String
	}
	p.CreatedAt = time.Unix(created, 0)

	return p, nil
}

// nullable maps an empty string to NULL
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
