package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	websocketHub "taskhub-api/infrastructure/websocket"
	"taskhub-api/pkg/logger"
	"taskhub-api/pkg/utils"
)

type WebSocketHandler struct {
	hub *websocketHub.Hub
}

func NewWebSocketHandler(hub *websocketHub.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// WebSocketUpgrade ส่ง user context ต่อให้ connection หลัง upgrade
func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	c.Locals("ws_user", user)
	return c.Next()
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	user, ok := c.Locals("ws_user").(*utils.UserContext)
	if !ok || user == nil {
		_ = c.Close()
		return
	}

	h.hub.RegisterClient(c, user.Actor())
	defer h.hub.UnregisterClient(c)

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			logger.Debug("WebSocket read ended", "user_id", user.ID, "error", err)
			return
		}
		if reply, ok := websocketHub.Reply(message); ok {
			h.hub.SendTo(c, reply)
		}
	}
}
