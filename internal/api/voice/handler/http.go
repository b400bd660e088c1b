package voiceHandler

import (
	voiceService "BrailleVoice/internal/api/voice/service"
	"BrailleVoice/internal/middleware"
	"BrailleVoice/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type VoiceHandler struct {
	log          *logrus.Logger
	validator    *validator.Validate
	middleware   middleware.Middleware
	voiceService voiceService.IVoiceService
	metrics      *metrics.Metrics
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	vs voiceService.IVoiceService,
	m *metrics.Metrics,
) *VoiceHandler {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &VoiceHandler{
		log:          log,
		validator:    validate,
		middleware:   middleware,
		voiceService: vs,
		metrics:      m,
	}
}

func (h *VoiceHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	voice := srv.Group("/voice")

	voice.Post("/command", h.middleware.NewRateLimiter, h.ProcessCommand)
	voice.Post("/utterances/:id/complete", h.CompleteUtterance)
	voice.Post("/interpret/test", h.TestInterpret)

	voice.Use("/ws", wsMiddleware)
	voice.Get("/ws", websocket.New(h.handleWebSocket))

	sessions := voice.Group("/sessions")
	sessions.Get("/:id", h.GetSession)
	sessions.Post("/:id/recognition", h.RecordRecognition)
	sessions.Get("/:id/theme", h.GetTheme)
	sessions.Put("/:id/theme", h.SetTheme)
	sessions.Get("/:id/history", h.GetHistory)

	voice.Get("/analytics", h.middleware.NewTokenMiddleware, h.GetAnalytics)

	rules := voice.Group("/rules", h.middleware.NewTokenMiddleware, h.middleware.NewAdminMiddleware)
	rules.Get("", h.GetRules)
	rules.Post("", h.CreateRule)
	rules.Put("/:name", h.UpdateRule)
	rules.Delete("/:name", h.DeleteRule)
}
