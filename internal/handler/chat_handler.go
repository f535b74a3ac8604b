package handlers

import (
	"strings"

	"github.com/fathima-sithara/chat-profile-service/internal/models"
	"github.com/fathima-sithara/chat-profile-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	svc *service.ChatService
	log *zap.Logger
}

func NewChatHandler(svc *service.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, log: log}
}

type addMessageReq struct {
	MessageID string `json:"messageId"`
}

type addParticipantReq struct {
	Username string `json:"username"`
}

// CreateChat stores the payload's messages and the chat referencing them
func (h *ChatHandler) CreateChat(c *fiber.Ctx) error {
	var req models.CreateChatPayload
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	chat, err := h.svc.SaveChat(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(chat)
}

// ListChats returns chats containing every user in ?participants=a,b
func (h *ChatHandler) ListChats(c *fiber.Ctx) error {
	raw := c.Query("participants")
	if raw == "" {
		return badRequest(c, "participants required")
	}

	usernames := strings.Split(raw, ",")
	for i := range usernames {
		usernames[i] = strings.TrimSpace(usernames[i])
	}
	chats := h.svc.GetChatsByParticipants(c.UserContext(), usernames)
	return c.JSON(fiber.Map{"chats": chats})
}

func (h *ChatHandler) GetChat(c *fiber.Ctx) error {
	chat, err := h.svc.GetChat(c.UserContext(), c.Params("chat_id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(chat)
}

func (h *ChatHandler) AddMessage(c *fiber.Ctx) error {
	var req addMessageReq
	if err := c.BodyParser(&req); err != nil || req.MessageID == "" {
		return badRequest(c, "messageId required")
	}

	chat, err := h.svc.AddMessageToChat(c.UserContext(), c.Params("chat_id"), req.MessageID)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(chat)
}

func (h *ChatHandler) AddParticipant(c *fiber.Ctx) error {
	var req addParticipantReq
	if err := c.BodyParser(&req); err != nil || req.Username == "" {
		return badRequest(c, "username required")
	}

	chat, err := h.svc.AddParticipantToChat(c.UserContext(), c.Params("chat_id"), req.Username)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(chat)
}
