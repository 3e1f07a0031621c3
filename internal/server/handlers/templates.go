package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/service/templates"
)

// TemplatesHandler exposes meal template management.
type TemplatesHandler struct {
	svc    *templates.Service
	logger *zap.Logger
}

// NewTemplatesHandler constructs the HTTP handler adapter.
func NewTemplatesHandler(svc *templates.Service, logger *zap.Logger) *TemplatesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplatesHandler{svc: svc, logger: logger}
}

// Create stores a new meal template.
func (h *TemplatesHandler) Create(c *gin.Context) {
	var payload models.MealTemplateCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	template, err := h.svc.Create(c.Request.Context(), tenantID(c), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, template)
}

// List returns the tenant's templates.
func (h *TemplatesHandler) List(c *gin.Context) {
	result, err := h.svc.List(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if result == nil {
		result = []models.MealTemplate{}
	}
	c.JSON(http.StatusOK, result)
}

// Delete removes a template.
func (h *TemplatesHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Log replays a template's items as fresh entries for a date.
func (h *TemplatesHandler) Log(c *gin.Context) {
	entries, err := h.svc.Log(c.Request.Context(), tenantID(c), c.Param("id"), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, entries)
}
