package store

import (
	"github.com/axewhyzed/get-that-phone/internal/model"
)

// Store defines the persistence interface for the phone catalog.
// Lookup methods return (nil, nil) when no row matches.
type Store interface {
	// Brand operations
	GetBrandByName(name string) (*model.Brand, error)
	CreateBrand(brand *model.Brand) error
	ListBrands() ([]*model.Brand, error)

	// Phone operations
	GetPhoneByFolder(brandID, folderName string) (*model.Phone, error)
	CreatePhone(phone *model.Phone) error
	ListPhonesByBrand(brandID string) ([]*model.Phone, error)

	// Detail operations (full-replace on every ingestion)
	GetPhoneDetail(phoneID string) (*model.PhoneDetail, error)
	ReplacePhoneDetail(detail *model.PhoneDetail) error

	// Image operations (full-replace on every ingestion)
	ListPhoneImages(phoneID string) ([]*model.PhoneImage, error)
	ReplacePhoneImages(phoneID string, images []*model.PhoneImage) error

	Close() error
}

// Ensure SQLiteStore implements the interface
var _ Store = (*SQLiteStore)(nil)
