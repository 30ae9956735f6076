package controller

import (
	"os"

	ws "ai-chatspace-gateway/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IWsController interface {
	RegisterRoutes(r fiber.Router)
}

type wsController struct {
	hub *ws.Hub
}

func NewWsController(hub *ws.Hub) IWsController {
	return &wsController{hub: hub}
}

func (c *wsController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ws/v1")
	h.Use("/", func(ctx *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(ctx) {
			return fiber.ErrUpgradeRequired
		}
		// Browsers cannot set headers on websocket dials, the token rides
		// the query string instead.
		userId, err := userIdFromToken(ctx.Query("token"))
		if err != nil {
			return fiber.ErrUnauthorized
		}
		ctx.Locals("user_id", userId.String())
		return ctx.Next()
	})
	h.Get("/", websocket.New(func(conn *websocket.Conn) {
		userId, _ := uuid.Parse(conn.Locals("user_id").(string))
		ws.ServeWs(c.hub, conn, userId)
	}))
}

func userIdFromToken(tokenStr string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, jwt.ErrTokenMalformed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	raw, _ := claims["user_id"].(string)
	return uuid.Parse(raw)
}
