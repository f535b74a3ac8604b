package handlers

import (
	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"github.com/fathima-sithara/chat-profile-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type MessageHandler struct {
	svc *service.ChatService
	log *zap.Logger
}

func NewMessageHandler(svc *service.ChatService, log *zap.Logger) *MessageHandler {
	return &MessageHandler{svc: svc, log: log}
}

// CreateMessage stores a standalone message; attach it with POST /chats/:chat_id/messages
func (h *MessageHandler) CreateMessage(c *fiber.Ctx) error {
	var req models.MessageInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	msg, err := h.svc.CreateMessage(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}
