package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/interfaces/http/dto"
)

// IdempotencyKeyHeader carries the client-chosen deduplication key
const IdempotencyKeyHeader = "Idempotency-Key"

// Idempotency rejects repeated mutating requests carrying the same
// Idempotency-Key header. The key is only consumed once the header is
// present; requests without the header pass through untouched.
func Idempotency(store shared.IdempotencyStore, cfg shared.IdempotencyConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || store == nil {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		// scope the key per group so tenants cannot collide
		if groupID := GetJWTGroupID(c); groupID != "" {
			key = groupID + ":" + key
		}

		fresh, err := store.MarkProcessed(c.Request.Context(), key, cfg.TTL)
		if err != nil {
			// store outage must not block writes
			if log != nil {
				log.Error("Idempotency store unavailable", zap.Error(err))
			}
			c.Next()
			return
		}
		if !fresh {
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse(dto.ErrCodeDuplicateRequest, "Request with this idempotency key was already processed"))
			return
		}

		c.Next()
	}
}
