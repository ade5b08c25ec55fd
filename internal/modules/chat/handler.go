package chat

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes registers chat routes under the protected group (JWT
// required). Base path is /api/v1/chat.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	chatGroup := rg.Group("/chat")
	{
		chatGroup.POST("/conversations", h.StartConversation)
		chatGroup.GET("/conversations", h.ListConversations)

		chatGroup.GET("/conversations/:id/messages", h.GetMessages)
		chatGroup.POST("/conversations/:id/messages", h.SendMessage)
		chatGroup.POST("/conversations/:id/read", h.MarkAsRead)

		chatGroup.GET("/admin/all", h.AdminListAll)
		chatGroup.POST("/admin/start", h.AdminStart)
		chatGroup.POST("/admin/:id/join", h.AdminJoin)
		chatGroup.POST("/admin/:id/auto-message", h.AdminAutoMessage)
	}
}

func (h *Handler) StartConversation(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok || role != domain.RoleParticipantCustomer {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only customers can start conversations")
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	conv, created, err := h.service.StartOrGet(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondChatError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, gin.H{"conversation": ToConversationResponse(conv, role)})
}

func (h *Handler) ListConversations(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unknown role")
		return
	}
	userID := c.GetInt64("user_id")

	var (
		convs []domain.Conversation
		err   error
	)
	switch role {
	case domain.RoleParticipantCustomer:
		convs, err = h.service.ListForCustomer(c.Request.Context(), userID)
	case domain.RoleParticipantVendor:
		convs, err = h.service.ListForVendor(c.Request.Context(), userID)
	default:
		convs, err = h.service.ListAll(c.Request.Context())
	}
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", err.Error())
		return
	}

	items := make([]*ConversationResponse, 0, len(convs))
	for i := range convs {
		items = append(items, ToConversationResponse(&convs[i], role))
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": items})
}

func (h *Handler) GetMessages(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unknown role")
		return
	}

	conversationID, ok := conversationID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	var beforeID *int64
	if v := c.Query("before_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "before_id must be integer")
			return
		}
		beforeID = &id
	}

	msgs, hasMore, err := h.service.Messages(c.Request.Context(), conversationID, role, c.GetInt64("user_id"), limit, beforeID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"messages": msgs,
		"has_more": hasMore,
	})
}

func (h *Handler) SendMessage(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unknown role")
		return
	}

	conversationID, ok := conversationID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	msg, err := h.service.Send(c.Request.Context(), conversationID, role, c.GetInt64("user_id"), req)
	if err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	role, ok := callerRole(c)
	if !ok {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Unknown role")
		return
	}

	conversationID, ok := conversationID(c)
	if !ok {
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), conversationID, role, c.GetInt64("user_id")); err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Conversation marked as read"})
}

func (h *Handler) AdminListAll(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		return
	}

	convs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_ERROR", err.Error())
		return
	}

	items := make([]*ConversationResponse, 0, len(convs))
	for i := range convs {
		items = append(items, ToConversationResponse(&convs[i], domain.RoleParticipantAdmin))
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": items})
}

func (h *Handler) AdminStart(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		return
	}

	var req AdminStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	conv, err := h.service.AdminStart(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"conversation": ToConversationResponse(conv, domain.RoleParticipantAdmin)})
}

func (h *Handler) AdminJoin(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		return
	}

	conversationID, ok := conversationID(c)
	if !ok {
		return
	}

	if err := h.service.AdminJoin(c.Request.Context(), conversationID, c.GetInt64("user_id")); err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Admin joined conversation"})
}

func (h *Handler) AdminAutoMessage(c *gin.Context) {
	if c.GetString("role") != string(domain.RoleAdmin) {
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		return
	}

	conversationID, ok := conversationID(c)
	if !ok {
		return
	}

	var req AutoMessageRequest
	_ = c.ShouldBindJSON(&req)

	msg, err := h.service.AdminAutoMessage(c.Request.Context(), conversationID, c.GetInt64("user_id"), req.TemplateKey)
	if err != nil {
		respondChatError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

func callerRole(c *gin.Context) (domain.ParticipantRole, bool) {
	switch domain.Role(c.GetString("role")) {
	case domain.RoleCustomer:
		return domain.RoleParticipantCustomer, true
	case domain.RoleVendor:
		return domain.RoleParticipantVendor, true
	case domain.RoleAdmin:
		return domain.RoleParticipantAdmin, true
	default:
		return "", false
	}
}

func conversationID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid conversation ID")
		return 0, false
	}
	return id, true
}

func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCategory):
		response.Error(c, http.StatusBadRequest, "INVALID_CATEGORY", err.Error())
	case errors.Is(err, ErrEmptyContent):
		response.Error(c, http.StatusBadRequest, "EMPTY_CONTENT", err.Error())
	case errors.Is(err, ErrSenderMismatch):
		response.Error(c, http.StatusForbidden, "SENDER_MISMATCH", err.Error())
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "CHAT_ERROR", err.Error())
	}
}
