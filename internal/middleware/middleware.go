package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewAdminMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	NewLoggingMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
}

type middleware struct {
	rateLimitter        *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

type Option func(*options)

type options struct {
	rate  rate.Limit
	burst int
}

// WithRateLimit sets the per client request rate and burst of NewRateLimiter.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		if perSecond > 0 {
			o.rate = rate.Limit(perSecond)
		}
		if burst > 0 {
			o.burst = burst
		}
	}
}

func New(logger *logrus.Logger, opts ...Option) Middleware {
	o := &options{rate: 50, burst: 100}
	for _, opt := range opts {
		opt(o)
	}

	return &middleware{
		rateLimitter:        newRateLimiter(o.rate, o.burst),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

func (m *middleware) NewLoggingMiddleware() fiber.Handler {
	return LoggerConfig()
}
