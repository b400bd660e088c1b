package handlerUtil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"BrailleVoice/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

func TestHandle_StatusCodes(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := New(logger)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"response error", response.NewError(404, "session not found"), 404},
		{"wrapped response error", fmt.Errorf("load: %w", response.NewError(409, "exists")), 409},
		{"deadline", context.DeadlineExceeded, fiber.StatusRequestTimeout},
		{"unknown", errors.New("boom"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return h.Handle(c, "req-1", tt.err, c.Path(), "test")
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, resp.StatusCode)
			}
		})
	}
}
