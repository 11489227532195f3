package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/purchase-orders/internal/infrastructure/persistence"
	"github.com/erp/purchase-orders/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_Register(t *testing.T) {
	engine := gin.New()

	aliased := NewRouteGroup("/orders").GET("", func(c *gin.Context) {
		c.String(http.StatusOK, c.FullPath())
	})
	versionedOnly := NewRouteGroup("/system").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	NewRouter(engine).RegisterWithAlias(aliased).Register(versionedOnly).Setup()

	w := serve(engine, http.MethodGet, APIPrefix+"/orders")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, APIPrefix+"/orders", w.Body.String())

	w = serve(engine, http.MethodGet, "/orders")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/orders", w.Body.String())

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, APIPrefix+"/system/ping").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/system/ping").Code)
}

func TestRouteGroup(t *testing.T) {
	engine := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	NewRouteGroup("/test").
		Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		}).
		GET("/items", ok).
		POST("/items", ok).
		PUT("/items/:id", ok).
		DELETE("/items/:id", ok).
		RegisterRoutes(engine.Group(APIPrefix))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, APIPrefix + "/test/items"},
		{http.MethodPost, APIPrefix + "/test/items"},
		{http.MethodPut, APIPrefix + "/test/items/1"},
		{http.MethodDelete, APIPrefix + "/test/items/1"},
	} {
		w := serve(engine, tc.method, tc.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	}
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodPatch, APIPrefix+"/test/items/1").Code)
}

type okDatabase struct{}

func (okDatabase) PingContext(context.Context) error { return nil }

func (okDatabase) Stats() (persistence.ConnectionStats, error) {
	return persistence.ConnectionStats{}, nil
}

func TestPurchaseOrderRoutes(t *testing.T) {
	h := handler.NewPurchaseOrderHandler(nil)
	g := PurchaseOrderRoutes(h, func(c *gin.Context) {
		c.AbortWithStatus(http.StatusTeapot)
	})

	engine := gin.New()
	NewRouter(engine).RegisterWithAlias(g).Setup()

	routes := map[string]bool{}
	for _, info := range engine.Routes() {
		routes[info.Method+" "+info.Path] = true
	}
	for _, prefix := range []string{"/api/v1", ""} {
		for _, route := range []string{
			"GET " + prefix + "/purchase-orders",
			"GET " + prefix + "/purchase-orders/next-number",
			"GET " + prefix + "/purchase-orders/:id",
			"POST " + prefix + "/purchase-orders",
			"PUT " + prefix + "/purchase-orders/:id",
			"DELETE " + prefix + "/purchase-orders/:id",
		} {
			assert.True(t, routes[route], "missing %s", route)
		}
	}

	// create middleware runs ahead of the handler
	assert.Equal(t, http.StatusTeapot, serve(engine, http.MethodPost, "/api/v1/purchase-orders").Code)
	// path ids are checked before the service is reached
	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodGet, "/purchase-orders/abc").Code)
}

func TestSystemRoutes(t *testing.T) {
	engine := gin.New()
	NewRouter(engine).Register(SystemRoutes(handler.NewSystemHandler("purchase-orders", "test", okDatabase{}))).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/info").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
}
