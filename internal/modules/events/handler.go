package events

import (
	"log"
	"net/http"

	jwtsvc "sharehub/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// origin checking happens in the CORS middleware for the REST routes;
	// the feed carries no client input so any origin may listen
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub        *Hub
	jwtService *jwtsvc.Service
}

func NewWSHandler(hub *Hub, jwtService *jwtsvc.Service) *WSHandler {
	return &WSHandler{hub: hub, jwtService: jwtService}
}

func (h *WSHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/events", h.HandleWebSocket)
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away.
//
// Endpoint: GET /ws/events?token=JWT_TOKEN
//
// Auth runs on a query parameter because browsers cannot set headers on
// websocket dials.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Token is required. Use ?token=YOUR_JWT_TOKEN",
		})
		return
	}

	if _, err := h.jwtService.ValidateToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws_upgrade_failed error=%q", err)
		return
	}

	clientID := uuid.NewString()
	h.hub.Register(clientID, conn)
	defer h.hub.Unregister(clientID)

	// the feed is one-way; drain reads only to notice the close frame
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
