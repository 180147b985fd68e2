package orders

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/models"
)

// Handlers exposes the order service over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// Register wires the order and cart routes.
func (h *Handlers) Register(r *gin.Engine) {
	api := r.Group("/api", auth.TrustedIdentity())
	{
		api.GET("/cart", h.Cart)
		api.POST("/cart/items", h.AddProductToCart)

		api.GET("/orders", h.ListOrders)
		api.POST("/orders", h.Checkout)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders/:id/status", h.UpdateOrderStatus)
		api.POST("/orders/:id/cancel", h.CancelOrder)
		api.POST("/orders/:id/payment", h.ProcessPayment)
	}
}

// Cart handles GET /api/cart. A missing cart is a 200 with a null body, not
// a 404.
func (h *Handlers) Cart(c *gin.Context) {
	order, err := h.service.Cart(c.Request.Context(), auth.CallerIdentity(c))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// AddProductToCart handles POST /api/cart/items.
func (h *Handlers) AddProductToCart(c *gin.Context) {
	var req models.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.service.AddProductToCart(c.Request.Context(), auth.CallerIdentity(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Checkout handles POST /api/orders.
func (h *Handlers) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.service.Checkout(c.Request.Context(), auth.CallerIdentity(c), &req)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/:id.
func (h *Handlers) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), auth.CallerIdentity(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /api/orders. The caller sees their own orders;
// ?all=true returns every customer's orders and is admin only.
func (h *Handlers) ListOrders(c *gin.Context) {
	filter := &models.OrderListFilter{}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if v := c.Query("status"); v != "" {
		status := models.OrderStatus(v)
		filter.Status = &status
	}

	ident := auth.CallerIdentity(c)

	var (
		orders []*models.Order
		total  int
		err    error
	)
	if c.Query("all") == "true" {
		filter.CustomerID = c.Query("customer_id")
		orders, total, err = h.service.AllOrders(c.Request.Context(), ident, filter)
	} else {
		orders, total, err = h.service.MyOrders(c.Request.Context(), ident, filter)
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
		"limit":  filter.Limit,
	})
}

// UpdateOrderStatus handles POST /api/orders/:id/status.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	order, err := h.service.UpdateOrderStatus(c.Request.Context(), auth.CallerIdentity(c), c.Param("id"), req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder handles POST /api/orders/:id/cancel.
func (h *Handlers) CancelOrder(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// The body is optional; a missing reason is fine.
	_ = c.ShouldBindJSON(&req)

	order, err := h.service.CancelOrder(c.Request.Context(), auth.CallerIdentity(c), c.Param("id"), req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ProcessPayment handles POST /api/orders/:id/payment.
func (h *Handlers) ProcessPayment(c *gin.Context) {
	var details models.PaymentDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.service.ProcessPayment(c.Request.Context(), auth.CallerIdentity(c), c.Param("id"), details)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func handleError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), apperrors.Payload(err))
}
