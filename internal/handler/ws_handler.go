package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Gaurav220900/Social/internal/audit"
	"github.com/Gaurav220900/Social/internal/config"
	"github.com/Gaurav220900/Social/internal/realtime"
	"github.com/Gaurav220900/Social/internal/service"
	"github.com/Gaurav220900/Social/pkg/log"
	"github.com/Gaurav220900/Social/pkg/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler owns the realtime endpoint: it authenticates the handshake,
// registers connections in the presence registry and dispatches client
// events.
type WSHandler struct {
	registry *realtime.Registry
	unread   *service.UnreadAccountant
	tokens   *token.Manager
	wsCfg    config.WebSocketConfig
}

// NewWSHandler creates a new websocket handler.
func NewWSHandler(
	registry *realtime.Registry,
	unread *service.UnreadAccountant,
	tokens *token.Manager,
	wsCfg config.WebSocketConfig,
) *WSHandler {
	return &WSHandler{
		registry: registry,
		unread:   unread,
		tokens:   tokens,
		wsCfg:    wsCfg,
	}
}

// RegisterRoutes registers the websocket route.
func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection. The token is validated before the
// upgrade so unauthenticated clients get a plain 401 instead of a socket.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	l := log.Ctx(c.Request.Context())

	claims, err := h.tokens.Validate(c.Query("token"))
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := realtime.NewClient(uuid.New().String(), claims.UserID, conn, h.wsCfg)
	audit.Log(c.Request.Context(), audit.ActionConnect, claims.UserID, "websocket connected")

	go client.WritePump()
	go h.readLoop(client)
}

func (h *WSHandler) readLoop(client *realtime.Client) {
	userID := client.Session().UserID
	client.ReadPump(h.registry, h.handleMessage)
	audit.Log(context.Background(), audit.ActionDisconnect, userID, "websocket disconnected")
}

// handleMessage dispatches one client frame. Malformed frames get an error
// push instead of killing the connection.
func (h *WSHandler) handleMessage(client *realtime.Client, message []byte) {
	ctx := context.Background()
	userID := client.Session().UserID

	var env realtime.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		client.Push(realtime.EventError, realtime.ErrorData{Code: "bad_request", Message: "invalid message format"})
		return
	}

	switch env.Event {
	case realtime.EventJoinRoom:
		var data realtime.JoinRoomData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			client.Push(realtime.EventError, realtime.ErrorData{Code: "bad_request", Message: "invalid joinRoom payload"})
			return
		}
		// A connection may only join its own room.
		if data.UserID != userID {
			client.Push(realtime.EventError, realtime.ErrorData{Code: "forbidden", Message: "cannot join another user's room"})
			return
		}
		h.registry.Register(userID, client)
		audit.Log(ctx, audit.ActionJoinRoom, userID, "joined own room")

	case realtime.EventOpenConversation:
		var data realtime.OpenConversationData
		if err := json.Unmarshal(env.Data, &data); err != nil || data.PartnerID == "" {
			client.Push(realtime.EventError, realtime.ErrorData{Code: "bad_request", Message: "invalid openConversation payload"})
			return
		}
		client.Session().OpenConversation(data.PartnerID)
		// Opening the conversation implies having seen everything in it.
		if err := h.unread.MarkSeen(ctx, userID, data.PartnerID); err != nil {
			l := log.L()
			l.Error().Err(err).Str(log.FieldUserID, userID).Str(log.FieldPartnerID, data.PartnerID).Msg("failed to mark conversation seen")
		}

	case realtime.EventCloseConversation:
		client.Session().CloseConversation()

	case realtime.EventPing:
		client.Push(realtime.EventPong, nil)

	default:
		client.Push(realtime.EventError, realtime.ErrorData{Code: "bad_request", Message: "unknown event"})
	}
}
