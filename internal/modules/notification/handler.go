package notification

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

// RegisterRoutes registers notification routes under the protected group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/notifications")
	{
		g.GET("", h.List)
		g.GET("/unread-count", h.UnreadCount)
		g.POST("/read-all", h.MarkAllRead)
		g.POST("/:id/read", h.MarkRead)
		g.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) List(c *gin.Context) {
	recipientID, kind, ok := recipient(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	f := repository.NotificationFilter{
		UnreadOnly: c.Query("unread_only") == "true",
		Limit:      limit,
	}

	list, err := h.service.ListForRecipient(c.Request.Context(), recipientID, kind, f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"notifications": list})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	recipientID, kind, ok := recipient(c)
	if !ok {
		return
	}

	count, err := h.service.CountUnread(c.Request.Context(), recipientID, kind)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"count": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	recipientID, kind, ok := recipient(c)
	if !ok {
		return
	}
	id, ok := notificationID(c)
	if !ok {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id, recipientID, kind); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	recipientID, kind, ok := recipient(c)
	if !ok {
		return
	}
	if err := h.service.MarkAllRead(c.Request.Context(), recipientID, kind); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *Handler) Delete(c *gin.Context) {
	recipientID, kind, ok := recipient(c)
	if !ok {
		return
	}
	id, ok := notificationID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, recipientID, kind); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_ERROR", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// recipient derives the caller's notification identity from the token, never
// from the request. Customer and vendor ids come from separate sequences, so
// the role is part of the identity; admins have no notification inbox.
func recipient(c *gin.Context) (int64, domain.RecipientKind, bool) {
	switch domain.Role(c.GetString("role")) {
	case domain.RoleCustomer:
		return c.GetInt64("user_id"), domain.RecipientCustomer, true
	case domain.RoleVendor:
		return c.GetInt64("user_id"), domain.RecipientVendor, true
	default:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "No notification inbox for this role")
		return 0, "", false
	}
}

func notificationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return 0, false
	}
	return id, true
}
