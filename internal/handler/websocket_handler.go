package handler

import (
	"net/http"

	"github.com/yourorg/trading-dashboard/internal/middleware"
	"github.com/yourorg/trading-dashboard/internal/utils"
	"github.com/yourorg/trading-dashboard/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketHandler upgrades session connections and attaches them to the hub
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler creates a websocket handler accepting the given origins
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		logger: logger,
	}
}

// Connect handles websocket upgrades
// GET /ws
func (h *WebSocketHandler) Connect(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		utils.SendErrorResponse(c, http.StatusUnauthorized, "Session required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.NewClient(uuid.New().String(), sess.ID, conn)
	go client.WritePump()
	client.ReadPump()
}
