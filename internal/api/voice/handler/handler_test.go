package voiceHandler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/internal/entity"
	"BrailleVoice/internal/middleware"
	"BrailleVoice/pkg/command"
	"BrailleVoice/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type fakeService struct {
	commandErr  error
	completeErr error
	lastCommand voice.CommandRequest
	historyArgs [3]interface{}
}

func (f *fakeService) ProcessCommand(ctx context.Context, req voice.CommandRequest) (*voice.CommandResponse, error) {
	f.lastCommand = req
	if f.commandErr != nil {
		return nil, f.commandErr
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "new-session"
	}
	return &voice.CommandResponse{
		SessionID:   sessionID,
		Transcript:  req.Transcript,
		Intent:      command.Navigate("/helper/"),
		Outcome:     entity.OutcomeExecuted,
		Speech:      "Navigating to helper",
		AwaitSpeech: true,
		UtteranceID: "utt-1",
		Session:     voice.SessionState{ID: sessionID},
	}, nil
}

func (f *fakeService) CompleteUtterance(ctx context.Context, utteranceID string) (*voice.CompletionResponse, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	return &voice.CompletionResponse{
		UtteranceID: utteranceID,
		SessionID:   "s1",
		Action:      &voice.Action{Type: voice.ActionRedirect, Path: "/helper/"},
	}, nil
}

func (f *fakeService) TestInterpret(ctx context.Context, req voice.InterpretTestRequest) (*voice.InterpretTestResponse, error) {
	return &voice.InterpretTestResponse{Input: req.Transcript}, nil
}

func (f *fakeService) GetSession(ctx context.Context, sessionID string) (*voice.SessionState, error) {
	if sessionID == "missing" {
		return nil, voice.ErrSessionNotFound
	}
	return &voice.SessionState{ID: sessionID}, nil
}

func (f *fakeService) RecordRecognition(ctx context.Context, sessionID string, req voice.RecognitionRequest) (*voice.RecognitionResponse, error) {
	return &voice.RecognitionResponse{Restart: req.Event == "end", DelayMS: 500, Session: voice.SessionState{ID: sessionID}}, nil
}

func (f *fakeService) GetTheme(ctx context.Context, sessionID string) (*voice.ThemeResponse, error) {
	return &voice.ThemeResponse{SessionID: sessionID, Theme: command.ThemeLight}, nil
}

func (f *fakeService) SetTheme(ctx context.Context, sessionID string, req voice.ThemeRequest) (*voice.ThemeResponse, error) {
	return &voice.ThemeResponse{SessionID: sessionID, Theme: req.Theme}, nil
}

func (f *fakeService) GetHistory(ctx context.Context, sessionID string, page, limit int) ([]voice.CommandHistory, int, error) {
	f.historyArgs = [3]interface{}{sessionID, page, limit}
	return []voice.CommandHistory{}, 0, nil
}

func (f *fakeService) GetAnalytics(ctx context.Context) (*voice.Analytics, error) {
	return &voice.Analytics{}, nil
}

func (f *fakeService) GetRules(ctx context.Context) ([]voice.RuleResponse, error) {
	return []voice.RuleResponse{}, nil
}

func (f *fakeService) CreateRule(ctx context.Context, req voice.RuleRequest) (*voice.RuleResponse, error) {
	return &voice.RuleResponse{Name: req.Name}, nil
}

func (f *fakeService) UpdateRule(ctx context.Context, name string, req voice.RuleRequest) (*voice.RuleResponse, error) {
	return &voice.RuleResponse{Name: name}, nil
}

func (f *fakeService) DeleteRule(ctx context.Context, name string) error {
	return nil
}

func (f *fakeService) LoadRules(ctx context.Context) error {
	return nil
}

func newTestApp(svc *fakeService) *fiber.App {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mw := middleware.New(logger)
	h := New(logger, validator.New(), mw, svc, metrics.NewMetrics(prometheus.NewRegistry()))

	app := fiber.New(fiber.Config{StrictRouting: true, CaseSensitive: true})
	app.Use(mw.NewRequestIDMiddleware())
	h.Start(app.Group("/api/v1"))
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestRoutes(t *testing.T) {
	app := newTestApp(&fakeService{})

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		status   int
		contains string
	}{
		{"command", "POST", "/api/v1/voice/command", `{"transcript":"helper"}`, 200, `"utterance_id":"utt-1"`},
		{"command too long", "POST", "/api/v1/voice/command", `{"transcript":"` + strings.Repeat("a", 501) + `"}`, 400, "VALIDATION_ERROR"},
		{"command bad json", "POST", "/api/v1/voice/command", `{"transcript":`, 400, "VALIDATION_ERROR"},
		{"complete", "POST", "/api/v1/voice/utterances/utt-1/complete", "", 200, `"type":"redirect"`},
		{"interpret", "POST", "/api/v1/voice/interpret/test", `{"transcript":"news"}`, 200, `"input":"news"`},
		{"interpret empty", "POST", "/api/v1/voice/interpret/test", `{"transcript":""}`, 400, "VALIDATION_ERROR"},
		{"session", "GET", "/api/v1/voice/sessions/s1", "", 200, `"id":"s1"`},
		{"session missing", "GET", "/api/v1/voice/sessions/missing", "", 404, "session not found"},
		{"recognition", "POST", "/api/v1/voice/sessions/s1/recognition", `{"event":"end"}`, 200, `"restart":true`},
		{"recognition bad event", "POST", "/api/v1/voice/sessions/s1/recognition", `{"event":"pause"}`, 400, "VALIDATION_ERROR"},
		{"get theme", "GET", "/api/v1/voice/sessions/s1/theme", "", 200, `"theme":"light"`},
		{"set theme", "PUT", "/api/v1/voice/sessions/s1/theme", `{"theme":"dark"}`, 200, `"theme":"dark"`},
		{"set bad theme", "PUT", "/api/v1/voice/sessions/s1/theme", `{"theme":"blue"}`, 400, "VALIDATION_ERROR"},
		{"ws without upgrade", "GET", "/api/v1/voice/ws", "", fiber.StatusUpgradeRequired, ""},
		{"analytics needs token", "GET", "/api/v1/voice/analytics", "", 401, ""},
		{"rules need token", "GET", "/api/v1/voice/rules", "", 401, ""},
		{"rule create needs token", "POST", "/api/v1/voice/rules", `{"name":"x"}`, 401, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, app, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Errorf("expected status %d, got %d (%s)", tt.status, status, body)
			}
			if tt.contains != "" && !strings.Contains(body, tt.contains) {
				t.Errorf("expected body to contain %s, got %s", tt.contains, body)
			}
		})
	}
}

func TestCompleteUtterance_NotFound(t *testing.T) {
	app := newTestApp(&fakeService{completeErr: voice.ErrUtteranceNotFound})

	status, _ := doRequest(t, app, "POST", "/api/v1/voice/utterances/gone/complete", "")
	if status != 404 {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestProcessCommand_StoreFailure(t *testing.T) {
	app := newTestApp(&fakeService{commandErr: voice.ErrSessionStoreFailure})

	status, _ := doRequest(t, app, "POST", "/api/v1/voice/command", `{"transcript":"news"}`)
	if status != 503 {
		t.Errorf("expected 503, got %d", status)
	}
}

func TestGetHistory_QueryDefaults(t *testing.T) {
	svc := &fakeService{}
	app := newTestApp(svc)

	tests := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 20},
		{"?page=3&limit=50", 3, 50},
		{"?page=abc&limit=500", 1, 20},
		{"?page=-2&limit=0", 1, 20},
	}

	for _, tt := range tests {
		status, _ := doRequest(t, app, "GET", "/api/v1/voice/sessions/s1/history"+tt.query, "")
		if status != 200 {
			t.Fatalf("expected 200, got %d", status)
		}
		if svc.historyArgs[0] != "s1" || svc.historyArgs[1] != tt.page || svc.historyArgs[2] != tt.limit {
			t.Errorf("query %q: expected page %d limit %d, got %v", tt.query, tt.page, tt.limit, svc.historyArgs)
		}
	}
}
