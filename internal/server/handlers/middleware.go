package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tenantContextKey = "tenant_id"

// APIKeyAuth validates the X-API-Key header against the configured key map
// and stores the resolved tenant id on the request context. The tenant is
// never accepted from the request payload itself.
func APIKeyAuth(apiKeys map[string]string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		tenantID, ok := apiKeys[apiKey]
		if apiKey == "" || !ok {
			logger.Warn("rejected request with invalid api key", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing API key"})
			return
		}

		c.Set(tenantContextKey, tenantID)
		c.Next()
	}
}

func tenantID(c *gin.Context) string {
	return c.GetString(tenantContextKey)
}
