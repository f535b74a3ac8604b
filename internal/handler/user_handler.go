package handlers

import (
	"github.com/fathima-sithara/chat-profile-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type UserHandler struct {
	svc *service.UserService
	log *zap.Logger
}

func NewUserHandler(svc *service.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

type resetPasswordReq struct {
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type updateBiographyReq struct {
	Biography string `json:"biography"`
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	u, err := h.svc.GetUserByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(u)
}

func (h *UserHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	if err := h.svc.ResetPassword(c.UserContext(), c.Params("username"), req.NewPassword, req.ConfirmPassword); err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}

func (h *UserHandler) UpdateBiography(c *fiber.Ctx) error {
	var req updateBiographyReq
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	u, err := h.svc.UpdateBiography(c.UserContext(), c.Params("username"), req.Biography)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(u)
}

func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	u, err := h.svc.DeleteUser(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(u)
}
