package catalog

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/models"
)

// Handlers exposes the catalog service over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// Register wires the catalog routes.
func (h *Handlers) Register(r *gin.Engine) {
	api := r.Group("/api", auth.TrustedIdentity())
	{
		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)
		api.POST("/products", h.CreateProduct)
		api.PATCH("/products/:id", h.UpdateProduct)
		api.DELETE("/products/:id", h.DeleteProduct)
	}
}

// ListProducts handles GET /api/products.
func (h *Handlers) ListProducts(c *gin.Context) {
	filter := &models.ProductFilter{
		Name:     c.Query("name"),
		SellerID: c.Query("seller_id"),
	}
	if v := c.Query("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MinPrice = &f
		}
	}
	if v := c.Query("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.MaxPrice = &f
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	products, total, err := h.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// GetProduct handles GET /api/products/:id.
func (h *Handlers) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// CreateProduct handles POST /api/products.
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input models.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), auth.CallerIdentity(c), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PATCH /api/products/:id.
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var input models.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), auth.CallerIdentity(c), c.Param("id"), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/:id.
func (h *Handlers) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), auth.CallerIdentity(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func handleError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), apperrors.Payload(err))
}
