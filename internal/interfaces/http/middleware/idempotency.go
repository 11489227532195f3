package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/erp/purchase-orders/internal/domain/shared"
	"github.com/erp/purchase-orders/internal/infrastructure/logger"
	"github.com/erp/purchase-orders/internal/infrastructure/telemetry"
	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header.
const MaxIdempotencyKeyLength = 255

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
	Metrics *telemetry.IdempotencyMetrics
}

// Idempotency processes a request carrying Idempotency-Key at most once per
// key within TTL. A replay answers 409. When the first attempt does not end
// in a 2xx the key is released so the client can retry with it.
// Requests without the header pass through, and so do requests whose key
// cannot be checked because the store failed.
func Idempotency(store shared.IdempotencyStore, cfg IdempotencyConfig) gin.HandlerFunc {
	if !cfg.Enabled || store == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	metrics := cfg.Metrics

	return func(c *gin.Context) {
		header := c.GetHeader(dto.HeaderIdempotencyKey)
		if header == "" {
			c.Next()
			return
		}
		if len(header) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				dto.NewErrorResponse(dto.ErrCodeBadRequest, "Idempotency-Key is too long").
					WithRequestID(GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		log := logger.L(ctx)
		key := c.Request.Method + " " + c.FullPath() + " " + header

		claimed, err := store.MarkProcessed(ctx, key, cfg.TTL)
		if err != nil {
			log.Warn("Idempotency check failed, processing anyway",
				zap.String("idempotency_key", header),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !claimed {
			metrics.Record(ctx, telemetry.IdempotencyDuplicate)
			log.Info("Duplicate request rejected", zap.String("idempotency_key", header))
			c.AbortWithStatusJSON(http.StatusConflict,
				dto.NewErrorResponse(dto.ErrCodeDuplicateRequest,
					"A request with this Idempotency-Key has already been processed").
					WithRequestID(GetRequestID(c)))
			return
		}

		c.Next()

		if status := c.Writer.Status(); status < http.StatusOK || status >= http.StatusMultipleChoices {
			metrics.Record(ctx, telemetry.IdempotencyReleased)
			// The request context may already be cancelled.
			if err := store.Release(context.WithoutCancel(ctx), key); err != nil {
				log.Warn("Failed to release idempotency key",
					zap.String("idempotency_key", header),
					zap.Error(err),
				)
			}
			return
		}
		metrics.Record(ctx, telemetry.IdempotencyProcessed)
	}
}
