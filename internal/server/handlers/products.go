package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/service/barcode"
	"github.com/nutrilog/nutrilog/internal/service/products"
)

// ProductsHandler exposes product resolution, search, barcode lookup and
// manual product creation.
type ProductsHandler struct {
	productSvc *products.Service
	barcodeSvc *barcode.Service
	logger     *zap.Logger
}

// NewProductsHandler constructs the HTTP handler adapter.
func NewProductsHandler(productSvc *products.Service, barcodeSvc *barcode.Service, logger *zap.Logger) *ProductsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductsHandler{productSvc: productSvc, barcodeSvc: barcodeSvc, logger: logger}
}

// Resolve returns the canonical product for a (source, id) pair.
func (h *ProductsHandler) Resolve(c *gin.Context) {
	source, err := models.ParseSource(c.Param("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productSvc.Resolve(c.Request.Context(), source, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Search queries one catalog by free text.
func (h *ProductsHandler) Search(c *gin.Context) {
	source, err := models.ParseSource(c.Query("source"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q must not be empty"})
		return
	}

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	results, err := h.productSvc.Search(c.Request.Context(), source, query, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// Barcode resolves a product across the configured catalogs.
func (h *ProductsHandler) Barcode(c *gin.Context) {
	product, err := h.barcodeSvc.Lookup(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateManual registers a tenant-defined product.
func (h *ProductsHandler) CreateManual(c *gin.Context) {
	var payload models.ManualProductCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.productSvc.CreateManual(c.Request.Context(), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}
