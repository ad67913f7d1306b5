package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	wsHandler "taskhub-api/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, h *wsHandler.WebSocketHandler, protected fiber.Handler) {
	app.Use("/ws", protected, h.WebSocketUpgrade)
	app.Get("/ws", websocket.New(h.HandleWebSocket))
}
