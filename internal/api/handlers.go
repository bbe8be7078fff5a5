package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/axewhyzed/get-that-phone/internal/ingest"
	"github.com/axewhyzed/get-that-phone/internal/store"
)

// Handlers holds the API dependencies
type Handlers struct {
	store  store.Store
	ingest *ingest.Service
}

// NewHandlers creates API handlers
func NewHandlers(st store.Store, svc *ingest.Service) *Handlers {
	return &Handlers{store: st, ingest: svc}
}

// HealthCheck responds to health probes
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ParseRequest is the ingestion request body
type ParseRequest struct {
	BrandName  string `json:"brandName"`
	URL        string `json:"url"`
	FolderName string `json:"folderName"`
}

// ParsePhone fetches a device page, extracts its specification and images,
// and reconciles the result into the catalog
func (h *Handlers) ParsePhone(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.BrandName == "" || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brandName and url required"})
		return
	}

	summary, err := h.ingest.IngestURL(req.BrandName, req.URL, req.FolderName)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrNoSpecs):
			c.JSON(http.StatusBadRequest, gin.H{"error": "No specs found on page"})
		case errors.Is(err, ingest.ErrFetch):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			log.Error().Err(err).Str("url", req.URL).Msg("Ingestion failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": summary.Name + " added successfully",
		"phone":   summary,
	})
}

// GetBrands returns all brands sorted by display name
func (h *Handlers) GetBrands(c *gin.Context) {
	brands, err := h.store.ListBrands()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, brands)
}

// GetPhones returns a brand's phones sorted by name
func (h *Handlers) GetPhones(c *gin.Context) {
	brandID := c.Query("brandId")
	if brandID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brandId required"})
		return
	}

	phones, err := h.store.ListPhonesByBrand(brandID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, phones)
}

// GetPhoneDetail returns one phone's detail row joined with its images,
// images sorted by type then index
func (h *Handlers) GetPhoneDetail(c *gin.Context) {
	id := c.Param("id")

	detail, err := h.store.GetPhoneDetail(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "phone not found"})
		return
	}

	images, err := h.store.ListPhoneImages(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.JSON(http.StatusOK, gin.H{
		"phone_id": detail.PhoneID,
		"specs":    detail.Specs,
		"metadata": detail.Metadata,
		"sources":  detail.Sources,
		"images":   images,
	})
}
