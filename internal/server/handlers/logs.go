package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/service/export"
	"github.com/nutrilog/nutrilog/internal/service/logs"
)

// LogsHandler exposes log entry CRUD, daily/range summaries and export.
type LogsHandler struct {
	logSvc    *logs.Service
	exportSvc *export.Service
	logger    *zap.Logger
}

// NewLogsHandler constructs the HTTP handler adapter.
func NewLogsHandler(logSvc *logs.Service, exportSvc *export.Service, logger *zap.Logger) *LogsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogsHandler{logSvc: logSvc, exportSvc: exportSvc, logger: logger}
}

// Create records a consumption event.
func (h *LogsHandler) Create(c *gin.Context) {
	var payload models.LogEntryCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.logSvc.Create(c.Request.Context(), tenantID(c), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// List returns the tenant's entries for one date (today by default).
func (h *LogsHandler) List(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	entries, err := h.logSvc.EntriesForDate(c.Request.Context(), tenantID(c), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if entries == nil {
		entries = []models.LogEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// Get returns a single entry.
func (h *LogsHandler) Get(c *gin.Context) {
	entry, err := h.logSvc.Get(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Update patches quantity and/or note of an entry.
func (h *LogsHandler) Update(c *gin.Context) {
	var payload models.LogEntryUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.logSvc.Update(c.Request.Context(), tenantID(c), c.Param("id"), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// Delete removes an entry.
func (h *LogsHandler) Delete(c *gin.Context) {
	if err := h.logSvc.Delete(c.Request.Context(), tenantID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DailyNutrition returns the nutrition summary for one date.
func (h *LogsHandler) DailyNutrition(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	summary, err := h.logSvc.DailyNutrition(c.Request.Context(), tenantID(c), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DailyHydration returns the hydration summary for one date.
func (h *LogsHandler) DailyHydration(c *gin.Context) {
	date, ok := parseDateQuery(c, "date")
	if !ok {
		return
	}

	summary, err := h.logSvc.DailyHydration(c.Request.Context(), tenantID(c), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// NutritionRange returns one nutrition summary per day of the range.
func (h *LogsHandler) NutritionRange(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	summaries, err := h.logSvc.NutritionRange(c.Request.Context(), tenantID(c), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// HydrationRange returns one hydration summary per day of the range.
func (h *LogsHandler) HydrationRange(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	summaries, err := h.logSvc.HydrationRange(c.Request.Context(), tenantID(c), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// ExportCSV streams the tenant's entries for the range as a CSV download.
func (h *LogsHandler) ExportCSV(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("nutrition_%s_%s.csv",
		from.Format(models.DateLayout), to.Format(models.DateLayout))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exportSvc.WriteCSV(c.Request.Context(), c.Writer, tenantID(c), from, to); err != nil {
		if !c.Writer.Written() {
			respondError(c, h.logger, err)
			return
		}
		// The response already started; the row stream just stops.
		h.logger.Error("csv export failed mid-stream", zap.Error(err))
	}
}

// ExportSheet mirrors the export rows into the configured spreadsheet.
func (h *LogsHandler) ExportSheet(c *gin.Context) {
	from, to, ok := parseRangeQuery(c)
	if !ok {
		return
	}

	rows, err := h.exportSvc.AppendToSheet(c.Request.Context(), tenantID(c), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows_appended": rows})
}
