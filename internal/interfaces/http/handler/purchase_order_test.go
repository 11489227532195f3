package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	poapp "github.com/erp/purchase-orders/internal/application/purchasing"
	"github.com/erp/purchase-orders/internal/domain/purchasing"
	"github.com/erp/purchase-orders/internal/infrastructure/cache"
	"github.com/erp/purchase-orders/internal/infrastructure/config"
	"github.com/erp/purchase-orders/internal/infrastructure/persistence"
	"github.com/erp/purchase-orders/internal/infrastructure/persistence/models"
	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
	"github.com/erp/purchase-orders/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

const basePath = "/api/v1/purchase-orders"

// newPurchaseOrderTestServer wires the handler to a real service and an
// in-memory SQLite store.
func newPurchaseOrderTestServer(t *testing.T) *gin.Engine {
	t.Helper()

	database, err := persistence.Open(sqlite.Open(":memory:"),
		&config.DatabaseConfig{MaxOpenConns: 1, MaxIdleConns: 1},
		logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.DB.AutoMigrate(&models.PurchaseOrderModel{}))

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	h := NewPurchaseOrderHandler(poapp.NewPurchaseOrderService(persistence.NewGormPurchaseOrderRepository(database.DB)))

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	group := engine.Group(basePath)
	group.GET("", h.List)
	group.GET("/next-number", h.NextNumber)
	group.GET("/:id", h.GetByID)
	group.POST("", middleware.Idempotency(store, middleware.IdempotencyConfig{Enabled: true, TTL: time.Hour}), h.Create)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
	return engine
}

func scenarioA() map[string]any {
	return map[string]any{
		"poNumber":     "PO-2025-001",
		"description":  "Office chairs",
		"supplierName": "Acme Co",
		"orderDate":    "2025-06-01",
		"totalAmount":  150.00,
		"status":       "Draft",
	}
}

func doJSON(t *testing.T, engine *gin.Engine, method, target string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeOrder(t *testing.T, w *httptest.ResponseRecorder) poapp.PurchaseOrderResponse {
	t.Helper()
	var resp poapp.PurchaseOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	assert.Equal(t, dto.StatusError, resp.Status)
	assert.NotNil(t, resp.Errors)
	return resp
}

func createOrder(t *testing.T, engine *gin.Engine, body map[string]any) poapp.PurchaseOrderResponse {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, basePath, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeOrder(t, w)
}

func TestPurchaseOrderHandler_Create(t *testing.T) {
	t.Run("stores a valid record", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		w := doJSON(t, engine, http.MethodPost, basePath, scenarioA())

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		order := decodeOrder(t, w)
		assert.Positive(t, order.ID)
		assert.Equal(t, "PO-2025-001", order.PoNumber)
		assert.Equal(t, "Office chairs", order.Description)
		assert.Equal(t, "Acme Co", order.SupplierName)
		assert.Equal(t, "2025-06-01", order.OrderDate)
		assert.Equal(t, "150.00", order.TotalAmount.String())
		assert.Equal(t, "Draft", order.Status)
		assert.Equal(t, fmt.Sprintf("%s/%d", basePath, order.ID), w.Header().Get("Location"))
	})

	t.Run("rejects a duplicate PO Number", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)
		createOrder(t, engine, scenarioA())

		second := scenarioA()
		second["description"] = "Standing desks"
		w := doJSON(t, engine, http.MethodPost, basePath, second)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Code)
		assert.Contains(t, resp.Message, "PO-2025-001")
		assert.Equal(t, []string{purchasing.MsgDuplicateDetail}, resp.Errors)
	})

	t.Run("PO Number differing only in case is a duplicate", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)
		createOrder(t, engine, scenarioA())

		second := scenarioA()
		second["poNumber"] = "po-2025-001"
		w := doJSON(t, engine, http.MethodPost, basePath, second)

		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeError(t, w).Code)
	})

	t.Run("stores the PO Number upper-cased", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		body := scenarioA()
		body["poNumber"] = "po-2025-009"
		assert.Equal(t, "PO-2025-009", createOrder(t, engine, body).PoNumber)
	})

	t.Run("reports a negative amount on totalAmount", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		body := scenarioA()
		body["totalAmount"] = -5
		w := doJSON(t, engine, http.MethodPost, basePath, body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Code)
		assert.Equal(t, purchasing.MsgValidationFailed, resp.Message)
		assert.Equal(t, []string{purchasing.MsgAmountMin}, resp.FieldErrors[purchasing.FieldTotalAmount])
		assert.Contains(t, resp.Errors, purchasing.MsgAmountMin)
		assert.Len(t, resp.FieldErrors, 1)
	})

	t.Run("reports every failed field", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		w := doJSON(t, engine, http.MethodPost, basePath, map[string]any{"totalAmount": "abc"})

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		for _, field := range purchasing.Fields {
			assert.True(t, len(resp.FieldErrors[field]) > 0, "expected error on %s", field)
		}
		assert.Equal(t, []string{purchasing.MsgAmountNumeric}, resp.FieldErrors[purchasing.FieldTotalAmount])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		w := doJSON(t, engine, http.MethodPost, basePath, `{"poNumber":`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidJSON, decodeError(t, w).Code)
	})

	t.Run("wrong JSON type does not leak decoder detail", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		w := doJSON(t, engine, http.MethodPost, basePath, `{"poNumber": 42}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Code)
		assert.Equal(t, MsgInvalidJSON, resp.Message)
		assert.Equal(t, []string{MsgInvalidJSONDetail}, resp.Errors)
		assert.NotContains(t, w.Body.String(), "Go struct")
		assert.NotContains(t, w.Body.String(), "CreatePurchaseOrderRequest")
	})

	t.Run("replayed idempotency key", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		first := doJSON(t, engine, http.MethodPost, basePath, scenarioA(), dto.HeaderIdempotencyKey, "create-1")
		require.Equal(t, http.StatusCreated, first.Code)

		replay := doJSON(t, engine, http.MethodPost, basePath, scenarioA(), dto.HeaderIdempotencyKey, "create-1")
		require.Equal(t, http.StatusConflict, replay.Code)
		assert.Equal(t, dto.ErrCodeDuplicateRequest, decodeError(t, replay).Code)
	})

	t.Run("failed attempt can be retried with the same key", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		bad := scenarioA()
		bad["status"] = "Lost"
		failed := doJSON(t, engine, http.MethodPost, basePath, bad, dto.HeaderIdempotencyKey, "create-2")
		require.Equal(t, http.StatusBadRequest, failed.Code)

		retry := doJSON(t, engine, http.MethodPost, basePath, scenarioA(), dto.HeaderIdempotencyKey, "create-2")
		assert.Equal(t, http.StatusCreated, retry.Code)
	})
}

func TestPurchaseOrderHandler_GetByID(t *testing.T) {
	engine := newPurchaseOrderTestServer(t)
	created := createOrder(t, engine, scenarioA())

	t.Run("round trip", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, fmt.Sprintf("%s/%d", basePath, created.ID), nil)

		require.Equal(t, http.StatusOK, w.Code)
		got := decodeOrder(t, w)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.PoNumber, got.PoNumber)
		assert.Equal(t, created.Description, got.Description)
		assert.Equal(t, created.SupplierName, got.SupplierName)
		assert.Equal(t, created.OrderDate, got.OrderDate)
		assert.Equal(t, created.TotalAmount, got.TotalAmount)
		assert.Equal(t, created.Status, got.Status)
	})

	t.Run("missing id", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, basePath+"/999", nil)

		require.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, purchasing.MsgNotFound, resp.Message)
		assert.Equal(t, []string{"No purchase order found with ID: 999"}, resp.Errors)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, basePath+"/abc", nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decodeError(t, w).Code)
	})
}

func TestPurchaseOrderHandler_Update(t *testing.T) {
	t.Run("changes only the status", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)
		created := createOrder(t, engine, scenarioA())

		body := scenarioA()
		body["id"] = created.ID
		body["status"] = "Shipped"
		w := doJSON(t, engine, http.MethodPut, fmt.Sprintf("%s/%d", basePath, created.ID), body)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decodeOrder(t, w)
		assert.Equal(t, "Shipped", updated.Status)
		assert.Equal(t, "PO-2025-001", updated.PoNumber)

		reread := decodeOrder(t, doJSON(t, engine, http.MethodGet, fmt.Sprintf("%s/%d", basePath, created.ID), nil))
		assert.Equal(t, "Shipped", reread.Status)
		assert.Equal(t, "PO-2025-001", reread.PoNumber)
	})

	t.Run("re-saves a stored record with encoded text unchanged", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)
		body := scenarioA()
		body["supplierName"] = "Acme & Co"
		body["description"] = "Desks <oak> & chairs"
		created := createOrder(t, engine, body)
		assert.Equal(t, "Acme &amp; Co", created.SupplierName)

		target := fmt.Sprintf("%s/%d", basePath, created.ID)
		stored := decodeOrder(t, doJSON(t, engine, http.MethodGet, target, nil))
		w := doJSON(t, engine, http.MethodPut, target, map[string]any{
			"id":           stored.ID,
			"poNumber":     stored.PoNumber,
			"description":  stored.Description,
			"supplierName": stored.SupplierName,
			"orderDate":    stored.OrderDate,
			"totalAmount":  stored.TotalAmount,
			"status":       "Shipped",
		})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		updated := decodeOrder(t, w)
		assert.Equal(t, "Shipped", updated.Status)
		assert.Equal(t, stored.SupplierName, updated.SupplierName)
		assert.Equal(t, stored.Description, updated.Description)
	})

	t.Run("id mismatch", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)
		created := createOrder(t, engine, scenarioA())

		body := scenarioA()
		body["id"] = created.ID + 1
		w := doJSON(t, engine, http.MethodPut, fmt.Sprintf("%s/%d", basePath, created.ID), body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeIDMismatch, resp.Code)
		assert.Equal(t, purchasing.MsgIDMismatch, resp.Message)
	})

	t.Run("absent record", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)

		body := scenarioA()
		body["id"] = 77
		w := doJSON(t, engine, http.MethodPut, basePath+"/77", body)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, decodeError(t, w).Code)
	})

	t.Run("taking another record's PO Number", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)
		createOrder(t, engine, scenarioA())
		second := scenarioA()
		second["poNumber"] = "PO-2025-002"
		other := createOrder(t, engine, second)

		second["id"] = other.ID
		second["poNumber"] = "PO-2025-001"
		w := doJSON(t, engine, http.MethodPut, fmt.Sprintf("%s/%d", basePath, other.ID), second)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeError(t, w).Code)
	})

	t.Run("invalid fields", func(t *testing.T) {
		engine := newPurchaseOrderTestServer(t)
		created := createOrder(t, engine, scenarioA())

		body := scenarioA()
		body["id"] = created.ID
		body["orderDate"] = "06/01/2025"
		w := doJSON(t, engine, http.MethodPut, fmt.Sprintf("%s/%d", basePath, created.ID), body)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, []string{purchasing.MsgOrderDateFormat}, resp.FieldErrors[purchasing.FieldOrderDate])
	})
}

func TestPurchaseOrderHandler_Delete(t *testing.T) {
	engine := newPurchaseOrderTestServer(t)
	created := createOrder(t, engine, scenarioA())
	target := fmt.Sprintf("%s/%d", basePath, created.ID)

	w := doJSON(t, engine, http.MethodDelete, target, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msg dto.MessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(t, dto.StatusSuccess, msg.Status)
	assert.Equal(t, MsgPurchaseOrderDeleted, msg.Message)

	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodGet, target, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, engine, http.MethodDelete, target, nil).Code)
}

func TestPurchaseOrderHandler_List(t *testing.T) {
	engine := newPurchaseOrderTestServer(t)
	for i, date := range []string{"2025-01-10", "2025-03-05", "2025-02-20"} {
		body := scenarioA()
		body["poNumber"] = fmt.Sprintf("PO-2025-%03d", i+1)
		body["orderDate"] = date
		if i == 1 {
			body["supplierName"] = "Globex"
			body["status"] = "Approved"
		}
		createOrder(t, engine, body)
	}

	t.Run("full collection newest first", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, basePath, nil)

		require.Equal(t, http.StatusOK, w.Code)
		var orders []poapp.PurchaseOrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		require.Len(t, orders, 3)
		assert.Equal(t, []string{"2025-03-05", "2025-02-20", "2025-01-10"},
			[]string{orders[0].OrderDate, orders[1].OrderDate, orders[2].OrderDate})
		assert.Equal(t, "3", w.Header().Get(dto.HeaderTotalCount))
		assert.Empty(t, w.Header().Get(dto.HeaderPage))
	})

	t.Run("paged", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, basePath+"?page=2&pageSize=2", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var orders []poapp.PurchaseOrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "2025-01-10", orders[0].OrderDate)
		assert.Equal(t, "3", w.Header().Get(dto.HeaderTotalCount))
		assert.Equal(t, "2", w.Header().Get(dto.HeaderPage))
		assert.Equal(t, "2", w.Header().Get(dto.HeaderPageSize))
	})

	t.Run("search and status", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, basePath+"?search=glob&status=Approved", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var orders []poapp.PurchaseOrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "PO-2025-002", orders[0].PoNumber)
	})

	t.Run("search matches text with an ampersand", func(t *testing.T) {
		body := scenarioA()
		body["poNumber"] = "PO-2025-050"
		body["supplierName"] = "Smith & Sons"
		createOrder(t, engine, body)

		w := doJSON(t, engine, http.MethodGet, basePath+"?search="+url.QueryEscape("Smith & Sons"), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var orders []poapp.PurchaseOrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
		require.Len(t, orders, 1)
		assert.Equal(t, "PO-2025-050", orders[0].PoNumber)
	})

	t.Run("empty result is an empty array", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, basePath+"?search=nothing-matches", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("bad query", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, basePath+"?sortBy=password", nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Code)
		assert.NotEmpty(t, resp.FieldErrors["sortBy"])
	})
}

func TestPurchaseOrderHandler_NextNumber(t *testing.T) {
	engine := newPurchaseOrderTestServer(t)
	createOrder(t, engine, scenarioA())
	second := scenarioA()
	second["poNumber"] = "PO-2025-017"
	createOrder(t, engine, second)

	w := doJSON(t, engine, http.MethodGet, basePath+"/next-number?year=2025", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"poNumber":"PO-2025-018"}`, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, basePath+"/next-number?year=2030", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"poNumber":"PO-2030-001"}`, w.Body.String())

	w = doJSON(t, engine, http.MethodGet, basePath+"/next-number?year=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
