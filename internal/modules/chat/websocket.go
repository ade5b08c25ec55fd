package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"eventgenie/internal/domain"
	"eventgenie/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// Origin checking is left to the deployment proxy.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub        *Hub
	jwtService *jwt.Service
	service    *Service
	logger     *zap.SugaredLogger
}

func NewWSHandler(hub *Hub, jwtService *jwt.Service, service *Service, logger *zap.SugaredLogger) *WSHandler {
	return &WSHandler{
		hub:        hub,
		jwtService: jwtService,
		service:    service,
		logger:     logger,
	}
}

// HandleWebSocket upgrades the connection and pumps client events.
//
// Endpoint: GET /ws/chat?token=JWT_TOKEN
//
// Browsers cannot set headers on WebSocket handshakes, so the token rides in
// the query string.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Token is required. Use ?token=YOUR_JWT_TOKEN",
		})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return
	}

	role, ok := participantRole(claims.Role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Unknown role"})
		return
	}
	key := ClientKey{Role: role, UserID: claims.UserID}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}

	cl := h.hub.Register(key, conn)
	h.logger.Infow("websocket connected", "role", role, "user_id", claims.UserID)

	defer func() {
		h.hub.Unregister(key)
		h.logger.Infow("websocket disconnected", "role", role, "user_id", claims.UserID)
	}()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(cl, done)

	h.readLoop(cl, key)
}

func (h *WSHandler) pingLoop(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := cl.ping(); err != nil {
				return
			}
		}
	}
}

func (h *WSHandler) readLoop(cl *client, key ClientKey) {
	for {
		_, rawMsg, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				h.logger.Warnw("websocket read error", "role", key.Role, "user_id", key.UserID, "error", err)
			}
			return
		}

		var msg WSClientMessage
		if err := json.Unmarshal(rawMsg, &msg); err != nil {
			h.sendError(cl, "INVALID_JSON", "Failed to parse message")
			continue
		}

		switch msg.Type {
		case "message":
			h.handleMessage(cl, key, msg)
		case "typing":
			h.handleTyping(key, msg)
		case "read":
			h.handleRead(key, msg)
		case "ping":
			_ = cl.writeJSON(NewPongEvent())
		default:
			h.sendError(cl, "UNKNOWN_TYPE", "Unknown message type: "+msg.Type)
		}
	}
}

func (h *WSHandler) handleMessage(cl *client, key ClientKey, msg WSClientMessage) {
	ctx := context.Background()

	if msg.ConversationID <= 0 {
		h.sendError(cl, "INVALID_CONVERSATION", "conversation_id is required")
		return
	}
	if msg.Content == "" {
		h.sendError(cl, "EMPTY_CONTENT", "content is required")
		return
	}

	// Send fans out to every connected participant, the sender included.
	_, err := h.service.Send(ctx, msg.ConversationID, key.Role, key.UserID,
		SendMessageRequest{Content: msg.Content})
	if err != nil {
		h.sendError(cl, "SEND_FAILED", err.Error())
	}
}

func (h *WSHandler) handleTyping(key ClientKey, msg WSClientMessage) {
	ctx := context.Background()

	if msg.ConversationID <= 0 {
		return
	}
	if !h.service.IsParticipant(ctx, msg.ConversationID, key.Role, key.UserID) {
		return
	}

	conv, err := h.service.Get(ctx, msg.ConversationID)
	if err != nil {
		return
	}

	event := NewTypingEvent(msg.ConversationID, key.Role, key.UserID, msg.IsTyping)
	for _, p := range conv.Participants {
		pk := ClientKey{Role: p.Role, UserID: p.UserID}
		if pk == key {
			continue
		}
		h.hub.SendTo(pk, event)
	}
}

func (h *WSHandler) handleRead(key ClientKey, msg WSClientMessage) {
	ctx := context.Background()

	if msg.ConversationID <= 0 {
		return
	}
	// MarkRead broadcasts the read event itself.
	_ = h.service.MarkRead(ctx, msg.ConversationID, key.Role, key.UserID)
}

func (h *WSHandler) sendError(cl *client, code, message string) {
	_ = cl.writeJSON(NewErrorEvent(code, message))
}

func participantRole(role string) (domain.ParticipantRole, bool) {
	switch domain.Role(role) {
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
