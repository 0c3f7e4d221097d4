package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Context keys for shop scoping. Every shop-scoped request must carry the
// shop it belongs to; repositories filter on it unconditionally.
const (
	ShopIDKey     = "shop_id"
	ShopHeaderKey = "X-Shop-ID"
)

// ShopMiddlewareConfig holds configuration for the shop scoping middleware
type ShopMiddlewareConfig struct {
	// SkipPaths are paths that don't require shop context (e.g. health check)
	SkipPaths []string
	// Required determines if shop context is mandatory
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultShopConfig returns default shop middleware configuration
func DefaultShopConfig() ShopMiddlewareConfig {
	return ShopMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:  true,
		Logger:    nil,
	}
}

// ShopMiddleware extracts the shop ID from the X-Shop-ID header
func ShopMiddleware() gin.HandlerFunc {
	return ShopMiddlewareWithConfig(DefaultShopConfig())
}

// ShopMiddlewareWithConfig returns shop middleware with custom configuration
func ShopMiddlewareWithConfig(cfg ShopMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		shopID := c.GetHeader(ShopHeaderKey)

		if shopID == "" {
			if cfg.Required {
				respondShopRequired(c, "Shop identification required")
				return
			}
			c.Next()
			return
		}

		if _, err := uuid.Parse(shopID); err != nil {
			respondShopRequired(c, "Invalid shop ID format")
			return
		}

		c.Set(ShopIDKey, shopID)

		// Propagate to the request context so service-layer logs carry it
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithShopID(ctx, log, shopID)
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Shop identified", zap.String("shop_id", shopID))
		}

		c.Next()
	}
}

// respondShopRequired sends a bad request response for missing or malformed shop IDs
func respondShopRequired(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_BAD_REQUEST",
			"message": message,
		},
	})
}

// GetShopID retrieves the shop ID from gin.Context
func GetShopID(c *gin.Context) string {
	if shopID, exists := c.Get(ShopIDKey); exists {
		if sid, ok := shopID.(string); ok {
			return sid
		}
	}
	return ""
}

// GetShopUUID retrieves the shop ID as UUID from gin.Context
func GetShopUUID(c *gin.Context) (uuid.UUID, error) {
	shopID := GetShopID(c)
	if shopID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(shopID)
}

// MustGetShopUUID retrieves the shop ID as UUID or panics if not found.
// Use this only in handlers behind ShopMiddleware.
func MustGetShopUUID(c *gin.Context) uuid.UUID {
	shopUUID, err := GetShopUUID(c)
	if err != nil || shopUUID == uuid.Nil {
		panic("valid shop_id not found in context")
	}
	return shopUUID
}

// OptionalShopMiddleware creates middleware that doesn't require a shop
func OptionalShopMiddleware() gin.HandlerFunc {
	cfg := DefaultShopConfig()
	cfg.Required = false
	return ShopMiddlewareWithConfig(cfg)
}
