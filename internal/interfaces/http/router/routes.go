package router

import (
	"github.com/erp/purchase-orders/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderRoutes builds the /purchase-orders group. createMiddleware
// runs before Create only, e.g. the Idempotency-Key guard.
func PurchaseOrderRoutes(h *handler.PurchaseOrderHandler, createMiddleware ...gin.HandlerFunc) *RouteGroup {
	create := append(append([]gin.HandlerFunc{}, createMiddleware...), h.Create)

	return NewRouteGroup("/purchase-orders").
		GET("", h.List).
		GET("/next-number", h.NextNumber).
		GET("/:id", h.GetByID).
		POST("", create...).
		PUT("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// SystemRoutes builds the /system group
func SystemRoutes(h *handler.SystemHandler) *RouteGroup {
	return NewRouteGroup("/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}
