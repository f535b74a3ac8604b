package routes

import (
	"context"
	"time"

	handlers "github.com/fathima-sithara/chat-profile-service/internal/handler"
	"github.com/fathima-sithara/chat-profile-service/internal/metrics"
	"github.com/fathima-sithara/chat-profile-service/internal/middleware"
	"github.com/fathima-sithara/chat-profile-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// HealthCheck pings one backing dependency.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Chats   *service.ChatService
	Users   *service.UserService
	Log     *zap.Logger
	Metrics *metrics.Metrics
	Checks  map[string]HealthCheck
}

// NewApp returns a fiber app with panic recovery and request logging
// installed ahead of mw.
func NewApp(log *zap.Logger, mw ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "chat-profile-service",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
	})
	app.Use(middleware.Recovery(log))
	app.Use(middleware.Logger(log))
	for _, h := range mw {
		app.Use(h)
	}
	return app
}

func Register(app *fiber.App, d Deps) {
	if d.Metrics != nil {
		app.Get("/metrics", d.Metrics.Handler())
	}

	api := app.Group("/api/v1")

	api.Get("/health", health(d.Checks))

	chatHandler := handlers.NewChatHandler(d.Chats, d.Log)
	chats := api.Group("/chats")
	chats.Post("/", chatHandler.CreateChat)
	chats.Get("/", chatHandler.ListChats)
	chats.Get("/:chat_id", chatHandler.GetChat)
	chats.Post("/:chat_id/messages", chatHandler.AddMessage)
	chats.Post("/:chat_id/participants", chatHandler.AddParticipant)

	messageHandler := handlers.NewMessageHandler(d.Chats, d.Log)
	api.Post("/messages", messageHandler.CreateMessage)

	userHandler := handlers.NewUserHandler(d.Users, d.Log)
	users := api.Group("/users")
	users.Get("/:username", userHandler.GetUser)
	users.Patch("/:username/password", userHandler.ResetPassword)
	users.Patch("/:username/biography", userHandler.UpdateBiography)
	users.Delete("/:username", userHandler.DeleteUser)
}

func health(checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.Map{}
		healthy := true
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			err := check(ctx)
			cancel()
			if err != nil {
				healthy = false
				status[name] = err.Error()
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "checks": status})
		}
		return c.JSON(fiber.Map{"status": "ok", "checks": status})
	}
}
