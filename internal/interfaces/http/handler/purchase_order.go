package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	poapp "github.com/erp/purchase-orders/internal/application/purchasing"
	"github.com/erp/purchase-orders/internal/interfaces/http/dto"
	"github.com/erp/purchase-orders/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// MsgPurchaseOrderDeleted confirms a successful delete
const MsgPurchaseOrderDeleted = "Purchase order deleted successfully"

// PurchaseOrderHandler handles purchase order-related API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *poapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *poapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Description  Returns purchase orders ordered by order date, newest first. Without page or pageSize the whole collection is returned.
// @Tags         purchase-orders
// @Produce      json
// @Param        search query string false "Case-insensitive match on PO Number or supplier name"
// @Param        status query string false "Order status" Enums(Draft, Approved, Shipped, Completed, Cancelled)
// @Param        from query string false "Earliest order date" format(date)
// @Param        to query string false "Latest order date" format(date)
// @Param        page query int false "Page number" minimum(1)
// @Param        pageSize query int false "Page size" default(10) maximum(100)
// @Param        sortBy query string false "Sort field" Enums(orderDate, poNumber, supplierName, totalAmount, status, createdAt) default(orderDate)
// @Param        sortOrder query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {array} purchasing.PurchaseOrderResponse
// @Header       200 {integer} X-Total-Count "Number of matching purchase orders"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var query poapp.ListPurchaseOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.orderService.List(c.Request.Context(), query)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header(dto.HeaderTotalCount, strconv.FormatInt(result.Total, 10))
	if query.Paginated() {
		c.Header(dto.HeaderPage, strconv.Itoa(result.Page))
		c.Header(dto.HeaderPageSize, strconv.Itoa(result.PageSize))
	}
	c.JSON(http.StatusOK, result.Items)
}

// GetByID godoc
// @ID           getPurchaseOrderById
// @Summary      Get purchase order by ID
// @Tags         purchase-orders
// @Produce      json
// @Param        id path int true "Purchase Order ID"
// @Success      200 {object} purchasing.PurchaseOrderResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Create a purchase order
// @Description  Validates the record, checks the PO Number is unused and stores it. A replayed Idempotency-Key is rejected with 409.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client generated key, one per create attempt"
// @Param        request body purchasing.CreatePurchaseOrderRequest true "Purchase order"
// @Success      201 {object} purchasing.PurchaseOrderResponse
// @Header       201 {string} Location "URL of the new purchase order"
// @Failure      400 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req poapp.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+strconv.FormatInt(order.ID, 10))
	c.JSON(http.StatusCreated, order)
}

// Update godoc
// @ID           updatePurchaseOrder
// @Summary      Replace a purchase order
// @Description  The body must carry the same id as the path.
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path int true "Purchase Order ID"
// @Param        request body purchasing.UpdatePurchaseOrderRequest true "Purchase order"
// @Success      200 {object} purchasing.PurchaseOrderResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /purchase-orders/{id} [put]
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req poapp.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Delete godoc
// @ID           deletePurchaseOrder
// @Summary      Delete a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path int true "Purchase Order ID"
// @Success      200 {object} dto.MessageResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(MsgPurchaseOrderDeleted))
}

// NextNumber godoc
// @ID           nextPurchaseOrderNumber
// @Summary      Suggest the next PO Number
// @Description  Returns PO-{year}-{seq} with seq one past the highest number used in that year.
// @Tags         purchase-orders
// @Produce      json
// @Param        year query int false "Order year, defaults to the current year"
// @Success      200 {object} purchasing.NextPoNumberResponse
// @Failure      400 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /purchase-orders/next-number [get]
func (h *PurchaseOrderHandler) NextNumber(c *gin.Context) {
	year := time.Now().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 9999 {
			h.BadRequest(c, "Invalid year", "year must be a number between 1 and 9999")
			return
		}
		year = parsed
	}

	next, err := h.orderService.NextPoNumber(c.Request.Context(), year)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, next)
}

// pathID parses the :id segment and answers 400 when it is not a positive integer.
func (h *PurchaseOrderHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.BadRequest(c, "Invalid purchase order ID", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
