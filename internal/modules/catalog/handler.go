package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"eventgenie/internal/domain"
	"eventgenie/internal/pkg/response"
	"eventgenie/internal/repository"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/services")
	{
		g.POST("", h.Create)
		g.GET("", h.Browse)
		g.GET("/vendor", h.ListMine)
		g.GET("/:id", h.GetByID)
		g.GET("/:id/blocked-dates", h.BlockedDates)
	}
}

func (h *Handler) Create(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleVendor) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only vendors can publish services")
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	svc, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"service": svc})
}

func (h *Handler) Browse(c *gin.Context) {
	services, err := h.service.Browse(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) ListMine(c *gin.Context) {
	services, err := h.service.ListByVendor(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

func (h *Handler) GetByID(c *gin.Context) {
	id, ok := serviceID(c)
	if !ok {
		return
	}
	svc, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": svc})
}

func (h *Handler) BlockedDates(c *gin.Context) {
	id, ok := serviceID(c)
	if !ok {
		return
	}
	dates, err := h.service.BlockedDates(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"blocked_dates": dates})
}

func serviceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid service ID")
		return 0, false
	}
	return id, true
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "INVALID_CATEGORY", err.Error())
	case errors.Is(err, ErrInvalidPrice):
		response.Error(c, http.StatusBadRequest, "INVALID_PRICE", err.Error())
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Service not found")
	default:
		response.Error(c, http.StatusInternalServerError, "CATALOG_ERROR", err.Error())
	}
}
