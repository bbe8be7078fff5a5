package ingest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axewhyzed/get-that-phone/internal/model"
	"github.com/axewhyzed/get-that-phone/internal/store"
)

const phonePage = `<html><body>
	<h1 class="prd_title">Phone X</h1>
	<span id="release-cal" data-content="October 2024"></span>
	<div class="pricesection_cntr">Rs. 79,999</div>
	<table><tbody id="display-specs">
		<tr><td class="spl_heading">Size</td><td class="spl_text">6.5 inches</td></tr>
	</tbody></table>
	<img class="sliderImage" src="https://cdn.91-img.com/gallery/phone-x-1.jpg" alt="Phone X front">
	<img class="sliderImage" src="https://cdn.91-img.com/gallery/phone-x-2.jpg">
</body></html>`

// Same phone, refreshed page: spec value changed, gallery gone
const phonePageNoImages = `<html><body>
	<h1 class="prd_title">Phone X</h1>
	<table><tbody id="display-specs">
		<tr><td class="spl_heading">Size</td><td class="spl_text">6.7 inches</td></tr>
	</tbody></table>
</body></html>`

type fakeFetcher struct {
	html string
	err  error
}

func (f *fakeFetcher) Fetch(url string) (string, error) {
	return f.html, f.err
}

func newTestService(t *testing.T, html string) (*Service, store.Store, *fakeFetcher) {
	t.Helper()
	st, err := store.NewSQLite(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f := &fakeFetcher{html: html}
	return New(st, f), st, f
}

func TestIngestURL_EndToEnd(t *testing.T) {
	svc, st, _ := newTestService(t, phonePage)

	summary, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "phone-x")
	require.NoError(t, err)
	assert.Equal(t, "Phone X", summary.Name)
	assert.Equal(t, 1, summary.SpecCategories)
	assert.Equal(t, 2, summary.GalleryImages)

	brand, err := st.GetBrandByName("TestBrand")
	require.NoError(t, err)
	require.NotNil(t, brand)
	assert.Equal(t, "TestBrand", brand.DisplayName)

	phone, err := st.GetPhoneByFolder(brand.ID, "phone-x")
	require.NoError(t, err)
	require.NotNil(t, phone)
	assert.Equal(t, summary.PhoneID, phone.ID)
	assert.Equal(t, "Phone X", phone.Name)
	assert.Equal(t, "Rs. 79,999", phone.Price)
	assert.Equal(t, "October 2024", phone.ReleaseDate)
	assert.Equal(t, "https://cdn.91-img.com/gallery/phone-x-1.jpg", phone.FirstImage)

	detail, err := st.GetPhoneDetail(phone.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, map[string]map[string]string{"Display": {"Size": "6.5 inches"}}, detail.Specs)
	assert.Equal(t, []string{sourceTag}, detail.Sources)

	images, err := st.ListPhoneImages(phone.ID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	for i, img := range images {
		assert.Equal(t, i, img.ImageIndex)
		assert.Equal(t, model.ImageTypeGallery, img.ImageType)
	}
	// Missing alt falls back to the phone name
	assert.Equal(t, "Phone X front", images[0].AltText)
	assert.Equal(t, "Phone X", images[1].AltText)
}

func TestIngestURL_Idempotent(t *testing.T) {
	svc, st, _ := newTestService(t, phonePage)

	first, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "phone-x")
	require.NoError(t, err)
	second, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "phone-x")
	require.NoError(t, err)

	assert.Equal(t, first.PhoneID, second.PhoneID)

	brands, err := st.ListBrands()
	require.NoError(t, err)
	assert.Len(t, brands, 1)

	phones, err := st.ListPhonesByBrand(brands[0].ID)
	require.NoError(t, err)
	assert.Len(t, phones, 1)

	images, err := st.ListPhoneImages(first.PhoneID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 0, images[0].ImageIndex)
	assert.Equal(t, 1, images[1].ImageIndex)
}

func TestIngestURL_ReIngestReplacesDetailAndImages(t *testing.T) {
	svc, st, fetcher := newTestService(t, phonePage)

	first, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "phone-x")
	require.NoError(t, err)

	fetcher.html = phonePageNoImages
	second, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "phone-x")
	require.NoError(t, err)
	assert.Equal(t, first.PhoneID, second.PhoneID)
	assert.Equal(t, 0, second.GalleryImages)

	// Detail was replaced, not left stale
	detail, err := st.GetPhoneDetail(first.PhoneID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, "6.7 inches", detail.Specs["Display"]["Size"])

	// All image rows are gone
	images, err := st.ListPhoneImages(first.PhoneID)
	require.NoError(t, err)
	assert.Empty(t, images)

	// The reference behavior: phone scalar columns are untouched on re-ingest
	phone, err := st.GetPhoneByFolder(detailBrandID(t, st), "phone-x")
	require.NoError(t, err)
	require.NotNil(t, phone)
	assert.Equal(t, "https://cdn.91-img.com/gallery/phone-x-1.jpg", phone.FirstImage)
}

func detailBrandID(t *testing.T, st store.Store) string {
	t.Helper()
	brands, err := st.ListBrands()
	require.NoError(t, err)
	require.Len(t, brands, 1)
	return brands[0].ID
}

func TestIngestURL_FolderDefaultsToPhoneName(t *testing.T) {
	svc, st, _ := newTestService(t, phonePage)

	summary, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "")
	require.NoError(t, err)

	phone, err := st.GetPhoneByFolder(detailBrandID(t, st), "Phone X")
	require.NoError(t, err)
	require.NotNil(t, phone)
	assert.Equal(t, summary.PhoneID, phone.ID)
}

func TestIngestURL_NoSpecsRejected(t *testing.T) {
	svc, st, _ := newTestService(t, `<html><body><h1>Phone X</h1></body></html>`)

	_, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "phone-x")
	require.ErrorIs(t, err, ErrNoSpecs)

	// Nothing was persisted
	brands, err := st.ListBrands()
	require.NoError(t, err)
	assert.Empty(t, brands)
}

func TestIngestURL_FetchFailure(t *testing.T) {
	svc, _, fetcher := newTestService(t, "")
	fetcher.err = fmt.Errorf("unexpected status code: 503")

	_, err := svc.IngestURL("TestBrand", "http://example.com/phone-x", "phone-x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetch))
}

func TestReconcile_BrandDisplayNameStripsSuffix(t *testing.T) {
	svc, st, _ := newTestService(t, phonePage)

	_, err := svc.IngestURL("SamsungPhones", "http://example.com/phone-x", "phone-x")
	require.NoError(t, err)

	brand, err := st.GetBrandByName("SamsungPhones")
	require.NoError(t, err)
	require.NotNil(t, brand)
	assert.Equal(t, "Samsung", brand.DisplayName)
}
