package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fathima-sithara/chat-profile-service/config"
	"github.com/fathima-sithara/chat-profile-service/internal/cache"
	"github.com/fathima-sithara/chat-profile-service/internal/events"
	"github.com/fathima-sithara/chat-profile-service/internal/kafka"
	"github.com/fathima-sithara/chat-profile-service/internal/logger"
	"github.com/fathima-sithara/chat-profile-service/internal/metrics"
	"github.com/fathima-sithara/chat-profile-service/internal/middleware"
	"github.com/fathima-sithara/chat-profile-service/internal/repository"
	"github.com/fathima-sithara/chat-profile-service/internal/routes"
	"github.com/fathima-sithara/chat-profile-service/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Server holds service dependencies
type Server struct {
	Cfg       *config.Config
	Log       *zap.Logger
	App       *fiber.App
	Store     *repository.Store
	Redis     *cache.Client
	Publisher events.Publisher

	// cancels background workers such as the rate limiter sweeper
	Cancel context.CancelFunc
}

// NewServer connects to every backing service. Redis and Kafka are skipped
// when their addresses are not configured.
func NewServer(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	store, err := repository.NewMongoStore(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = store.Close(context.Background())
		return nil, err
	}

	checks := map[string]routes.HealthCheck{"mongo": store.Ping}

	var (
		redisClient *cache.Client
		userCache   service.UserCache
	)
	if cfg.Redis.Addr != "" {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			_ = store.Close(context.Background())
			return nil, err
		}
		userCache = redisClient
		checks["redis"] = redisClient.Ping
	} else {
		log.Info("redis not configured, user cache disabled")
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		pub = events.NewAsync(kafka.NewProducer(cfg.Kafka, log), cfg.Kafka.QueueSize, log)
	} else {
		log.Info("kafka not configured, events disabled")
	}

	userRepo := repository.NewUserRepository(store)
	lookup := service.NewUserLookup(userRepo, userCache, log)
	chatSvc := service.NewChatService(
		lookup,
		repository.NewMessageRepository(store),
		repository.NewChatRepository(store),
		pub,
		log,
	)
	userSvc := service.NewUserService(userRepo, lookup, pub, log)

	runCtx, cancel := context.WithCancel(context.Background())
	m := metrics.New()
	mw := []fiber.Handler{m.Middleware()}
	if cfg.App.RateLimitPerMinute > 0 {
		limiter := middleware.NewIPRateLimiter(runCtx, cfg.App.RateLimitPerMinute, cfg.App.RateLimitBurst, log)
		mw = append(mw, limiter.Handler())
	}
	app := routes.NewApp(log, mw...)
	routes.Register(app, routes.Deps{
		Chats:   chatSvc,
		Users:   userSvc,
		Log:     log,
		Metrics: m,
		Checks:  checks,
	})

	return &Server{
		Cfg:       cfg,
		Log:       log,
		App:       app,
		Store:     store,
		Redis:     redisClient,
		Publisher: pub,
		Cancel:    cancel,
	}, nil
}

// Start runs the HTTP server in the background.
func (s *Server) Start() {
	addr := s.Cfg.App.Addr()
	go func() {
		s.Log.Info("starting chat-profile-service", zap.String("addr", addr))
		if err := s.App.Listen(addr); err != nil {
			s.Log.Fatal("fiber server exited unexpectedly", zap.Error(err))
		}
	}()
}

// Shutdown stops accepting requests, then closes clients in reverse order.
func (s *Server) Shutdown() {
	s.Log.Info("shutting down chat-profile-service...")

	ctx, cancel := context.WithTimeout(context.Background(), s.Cfg.App.ShutdownTimeout)
	defer cancel()

	if err := s.App.ShutdownWithContext(ctx); err != nil {
		s.Log.Error("failed to shutdown fiber app", zap.Error(err))
	}
	s.Cancel()
	if err := s.Publisher.Close(); err != nil {
		s.Log.Error("failed to close event publisher", zap.Error(err))
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Log.Error("failed to close redis", zap.Error(err))
		}
	}
	if err := s.Store.Close(ctx); err != nil {
		s.Log.Error("failed to disconnect mongo", zap.Error(err))
	}

	s.Log.Info("chat-profile-service stopped gracefully")
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	server, err := NewServer(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("failed to initialize server", zap.Error(err))
	}
	server.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("received signal, starting graceful shutdown", zap.String("signal", sig.String()))

	server.Shutdown()
}
