package identity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/marketmesh/marketmesh/internal/apperrors"
	"github.com/marketmesh/marketmesh/internal/auth"
	"github.com/marketmesh/marketmesh/internal/models"
)

// Handlers exposes the identity service over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// Register wires the identity routes.
func (h *Handlers) Register(r *gin.Engine) {
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)

	// "me" is handled inside the :id routes; gin's router cannot mix a
	// static segment with a parameter at the same position.
	api := r.Group("/api", auth.TrustedIdentity())
	{
		api.GET("/users/:id", h.GetUser)
		api.PATCH("/users/:id", h.UpdateProfile)
		api.DELETE("/users/:id", h.DeleteAccount)
		api.GET("/users", h.ListUsers)
	}
}

// Signup handles POST /api/auth/signup.
func (h *Handlers) Signup(c *gin.Context) {
	var input models.SignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payload, err := h.service.Signup(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payload)
}

// Login handles POST /api/auth/login.
func (h *Handlers) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payload, err := h.service.Login(c.Request.Context(), &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

// GetUser handles GET /api/users/:id. The literal id "me" resolves to the
// caller's own profile.
func (h *Handlers) GetUser(c *gin.Context) {
	ident := auth.CallerIdentity(c)

	var user *models.User
	var err error
	if c.Param("id") == "me" {
		user, err = h.service.Me(c.Request.Context(), ident)
	} else {
		user, err = h.service.GetUser(c.Request.Context(), ident, c.Param("id"))
	}
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers handles GET /api/users.
func (h *Handlers) ListUsers(c *gin.Context) {
	var role *models.Role
	if roleStr := c.Query("role"); roleStr != "" {
		r := models.Role(roleStr)
		role = &r
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.service.ListUsers(c.Request.Context(), auth.CallerIdentity(c), role, page, limit)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// UpdateProfile handles PATCH /api/users/:id. Only "me" or the caller's own
// id is accepted.
func (h *Handlers) UpdateProfile(c *gin.Context) {
	ident := auth.CallerIdentity(c)
	if id := c.Param("id"); id != "me" && id != ident.UserID {
		handleError(c, apperrors.NewAuthorization("not authorized to update this user"))
		return
	}

	var input models.UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), ident, &input)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteAccount handles DELETE /api/users/:id. Only "me" or the caller's own
// id is accepted.
func (h *Handlers) DeleteAccount(c *gin.Context) {
	ident := auth.CallerIdentity(c)
	if id := c.Param("id"); id != "me" && id != ident.UserID {
		handleError(c, apperrors.NewAuthorization("not authorized to delete this user"))
		return
	}

	if err := h.service.DeleteAccount(c.Request.Context(), ident); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func handleError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), apperrors.Payload(err))
}
