package auth

import (
	"context"
	"errors"
	"net/http"

	"eventgenie/internal/domain"
	"eventgenie/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public auth endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	{
		g.POST("/customer/register", h.RegisterCustomer)
		g.POST("/customer/login", h.LoginCustomer)
		g.POST("/vendor/register", h.RegisterVendor)
		g.POST("/vendor/login", h.LoginVendor)
		g.POST("/admin/login", h.LoginAdmin)
	}
}

// RegisterProtectedRoutes registers endpoints that need a valid token.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.Me)
}

func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	customer, err := h.service.RegisterCustomer(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"customer": customer})
}

func (h *Handler) RegisterVendor(c *gin.Context) {
	var req RegisterVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	vendor, err := h.service.RegisterVendor(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"vendor": vendor})
}

func (h *Handler) LoginCustomer(c *gin.Context) {
	h.login(c, h.service.LoginCustomer)
}

func (h *Handler) LoginVendor(c *gin.Context) {
	h.login(c, h.service.LoginVendor)
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	h.login(c, h.service.LoginAdmin)
}

func (h *Handler) login(c *gin.Context, fn func(ctx context.Context, req LoginRequest) (*LoginResult, error)) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := fn(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"auth": result})
}

func (h *Handler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context(), c.GetInt64("user_id"), domain.Role(c.GetString("role")))
	if err != nil {
		respondAuthError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, ErrInvalidUPIID):
		response.Error(c, http.StatusBadRequest, "INVALID_UPI_ID", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "AUTH_ERROR", err.Error())
	}
}
