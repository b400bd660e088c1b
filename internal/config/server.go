package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"BrailleVoice/database/postgres"
	authHandler "BrailleVoice/internal/api/auth/handler"
	authRepository "BrailleVoice/internal/api/auth/repository"
	authService "BrailleVoice/internal/api/auth/service"
	voiceHandler "BrailleVoice/internal/api/voice/handler"
	voiceRepository "BrailleVoice/internal/api/voice/repository"
	voiceService "BrailleVoice/internal/api/voice/service"
	"BrailleVoice/internal/middleware"
	"BrailleVoice/pkg/bcrypt"
	"BrailleVoice/pkg/events"
	"BrailleVoice/pkg/metrics"
	"BrailleVoice/pkg/redis"
	"BrailleVoice/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type ServerOption func(*Server) error

type Server struct {
	engine      *fiber.App
	db          *sqlx.DB
	log         *logrus.Logger
	middleware  middleware.Middleware
	validator   *validator.Validate
	utils       utils.IUtils
	bcrypt      bcrypt.IBcrypt
	handlers    []handler
	redisServer redis.IRedis
	publisher   events.IPublisher
	metrics     *metrics.Metrics
	voiceConfig *VoiceConfig
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.voiceConfig == nil {
		return nil, fmt.Errorf("voice config is required")
	}
	if server.metrics == nil {
		server.metrics = metrics.DefaultMetrics
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

func WithVoiceConfig(cfg *VoiceConfig) ServerOption {
	return func(s *Server) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		s.voiceConfig = cfg
		return nil
	}
}

func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}
		s.db = db
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

// WithEventPublisher needs WithLogger and WithVoiceConfig applied first.
func WithEventPublisher() ServerOption {
	return func(s *Server) error {
		if s.log == nil || s.voiceConfig == nil {
			return fmt.Errorf("logger and voice config must be initialized before the event publisher")
		}
		s.publisher = events.New(s.voiceConfig.EventsConfig(), s.log, s.metrics)
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		opts := []middleware.Option{}
		if s.voiceConfig != nil {
			opts = append(opts, middleware.WithRateLimit(s.voiceConfig.RateLimit, s.voiceConfig.RateBurst))
		}
		s.middleware = middleware.New(s.log, opts...)
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

// WithBcryptUtils needs WithVoiceConfig applied first for a configured cost.
func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		cost := 0
		if s.voiceConfig != nil {
			cost = s.voiceConfig.BcryptCost
		}
		hasher, err := bcrypt.New(cost)
		if err != nil {
			return err
		}
		s.bcrypt = hasher
		return nil
	}
}

func (s *Server) RegisterHandler() error {
	if s.bcrypt == nil {
		hasher, err := bcrypt.New(s.voiceConfig.BcryptCost)
		if err != nil {
			return fmt.Errorf("failed to create password hasher: %w", err)
		}
		s.bcrypt = hasher
	}

	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.NewAuthService(s.log, authRepo, s.bcrypt, s.utils)
	voiceRepo := voiceRepository.New(s.db, s.log)
	voiceServices, err := voiceService.NewVoiceService(
		s.log, voiceRepo, s.redisServer, s.publisher, s.metrics, s.utils, s.voiceConfig.ServiceConfig(),
	)
	if err != nil {
		return fmt.Errorf("failed to create voice service: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := voiceServices.LoadRules(ctx); err != nil {
		s.log.Warnf("Custom voice rules not loaded, using built-in rules only: %v", err)
	}

	err = authServices.EnsureAdmin(ctx,
		os.Getenv("VOICE_ADMIN_USERNAME"),
		os.Getenv("VOICE_ADMIN_EMAIL"),
		os.Getenv("VOICE_ADMIN_PASSWORD"),
	)
	if err != nil {
		s.log.Warnf("Bootstrap admin operator not ensured: %v", err)
	}

	authHandlers := authHandler.New(s.log, s.validator, s.middleware, authServices)

	voiceHandlers := voiceHandler.New(s.log, s.validator, s.middleware, voiceServices, s.metrics)

	s.handlers = append(s.handlers, authHandlers, voiceHandlers)
	return nil
}

func (s *Server) Run() error {
	s.setupRoutes()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// setupRoutes registers the global middleware first so that every route,
// health and metrics included, gets a request id and an access log.
func (s *Server) setupRoutes() {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggingMiddleware())

	s.setupHealthCheck()

	router := s.engine.Group("/api/v1")
	for _, h := range s.handlers {
		h.Start(router)
	}
}

func (s *Server) Shutdown() error {
	err := s.engine.ShutdownWithTimeout(10 * time.Second)

	if s.publisher != nil {
		if cerr := s.publisher.Close(); cerr != nil {
			s.log.Errorf("Failed to close event publisher: %v", cerr)
		}
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.log.Errorf("Failed to close database: %v", cerr)
		}
	}

	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		status := fiber.Map{
			"message": "Server is Healthy!",
		}

		if s.redisServer != nil {
			c, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
			defer cancel()
			if err := s.redisServer.Ping(c); err != nil {
				status["message"] = "Session store unavailable"
				return ctx.Status(fiber.StatusServiceUnavailable).JSON(status)
			}
		}

		return ctx.JSON(status)
	})

	s.engine.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}
