package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// respondError translates the domain error taxonomy into HTTP status codes:
// not-found conditions map to 404, validation failures to 400, catalog
// outages to 502, and everything else to 500.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var notFound *models.NotFoundError
	var external *models.ExternalAPIError
	var validation *models.ValidationError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.Is(err, models.ErrEntryNotFound), errors.Is(err, models.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &external):
		logger.Error("catalog unavailable", zap.String("source", external.Source), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "external catalog unavailable"})
	default:
		logger.Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseDateQuery reads an optional date query parameter, defaulting to the
// current UTC date.
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return models.NormalizeDate(time.Now()), true
	}

	parsed, err := time.ParseInLocation(models.DateLayout, raw, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must match " + models.DateLayout})
		return time.Time{}, false
	}
	return parsed, true
}

// parseRangeQuery reads the mandatory from/to query parameters. Range
// semantics (ordering, maximum span) are validated by the services before
// any I/O.
func parseRangeQuery(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := time.ParseInLocation(models.DateLayout, c.Query("from"), time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be provided and match " + models.DateLayout})
		return time.Time{}, time.Time{}, false
	}
	to, err := time.ParseInLocation(models.DateLayout, c.Query("to"), time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be provided and match " + models.DateLayout})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
