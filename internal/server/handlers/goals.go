package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/service/goals"
)

// GoalsHandler exposes daily goal management and progress.
type GoalsHandler struct {
	svc    *goals.Service
	logger *zap.Logger
}

// NewGoalsHandler constructs the HTTP handler adapter.
func NewGoalsHandler(svc *goals.Service, logger *zap.Logger) *GoalsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalsHandler{svc: svc, logger: logger}
}

// Get returns the tenant's current goals.
func (h *GoalsHandler) Get(c *gin.Context) {
	result, err := h.svc.Get(c.Request.Context(), tenantID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Update replaces the tenant's goals.
func (h *GoalsHandler) Update(c *gin.Context) {
	var payload models.Goals
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Update(c.Request.Context(), tenantID(c), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Progress reports goal progress for one date.
func (h *GoalsHandler) Progress(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	result, err := h.svc.Progress(c.Request.Context(), tenantID(c), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
