package voiceService

import (
	"context"
	"errors"
	"testing"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/pkg/command"
	"BrailleVoice/pkg/response"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRules_LifecycleReloadsInterpreter(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	before := env.command(t, voice.CommandRequest{Transcript: "open manuals"})
	if before.Intent.Recognized() {
		t.Fatalf("expected no match before the rule exists, got %s", before.Intent.Kind)
	}

	created, err := env.svc.CreateRule(ctx, voice.RuleRequest{
		Name:     "manuals",
		Keywords: []string{"  Manuals ", ""},
		Kind:     command.KindNavigate,
		Path:     "/visually-impaired/manuals/",
	})
	if err != nil {
		t.Fatalf("unexpected error creating rule: %v", err)
	}
	if len(created.Keywords) != 1 || created.Keywords[0] != "manuals" {
		t.Errorf("expected normalized keywords, got %v", created.Keywords)
	}
	if !created.IsActive {
		t.Error("expected rule to be active by default")
	}
	if got := testutil.ToFloat64(env.metrics.RulesLoaded); got != 1 {
		t.Errorf("expected 1 loaded rule, got %v", got)
	}

	after := env.command(t, voice.CommandRequest{Transcript: "open manuals"})
	if after.Intent.Rule != "manuals" || after.Intent.Path != "/visually-impaired/manuals/" {
		t.Errorf("expected custom rule to match, got %+v", after.Intent)
	}
	if after.Speech != "Navigating to visually impaired manuals" {
		t.Errorf("unexpected speech %q", after.Speech)
	}

	inactive := false
	updated, err := env.svc.UpdateRule(ctx, "manuals", voice.RuleRequest{
		Keywords: []string{"manuals"},
		Kind:     command.KindNavigate,
		Path:     "/visually-impaired/manuals/",
		IsActive: &inactive,
	})
	if err != nil {
		t.Fatalf("unexpected error updating rule: %v", err)
	}
	if updated.IsActive || updated.CreatedAt != created.CreatedAt {
		t.Errorf("unexpected update result %+v", updated)
	}

	disabled := env.command(t, voice.CommandRequest{Transcript: "open manuals"})
	if disabled.Intent.Recognized() {
		t.Errorf("expected inactive rule to be skipped, got %s", disabled.Intent.Kind)
	}

	if err := env.svc.DeleteRule(ctx, "manuals"); err != nil {
		t.Fatalf("unexpected error deleting rule: %v", err)
	}
	if err := env.svc.DeleteRule(ctx, "manuals"); !errors.Is(err, voice.ErrRuleNotFound) {
		t.Errorf("expected ErrRuleNotFound, got %v", err)
	}

	rules, err := env.svc.GetRules(ctx)
	if err != nil {
		t.Fatalf("unexpected error listing rules: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected no rules, got %d", len(rules))
	}
}

func TestRules_BuiltinsWinOverCustom(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.CreateRule(context.Background(), voice.RuleRequest{
		Name:     "news_override",
		Keywords: []string{"news"},
		Kind:     command.KindHelp,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res := env.command(t, voice.CommandRequest{Transcript: "news"})
	if res.Intent.Rule != "news" {
		t.Errorf("expected built-in news rule, got %s", res.Intent.Rule)
	}
}

func TestRules_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  voice.RuleRequest
		code int
	}{
		{"blank name", voice.RuleRequest{Name: "  ", Keywords: []string{"x"}, Kind: command.KindHelp}, 400},
		{"no keywords", voice.RuleRequest{Name: "r", Keywords: []string{"!!"}, Kind: command.KindHelp}, 400},
		{"relative path", voice.RuleRequest{Name: "r", Keywords: []string{"x"}, Kind: command.KindNavigate, Path: "news"}, 400},
		{"missing theme", voice.RuleRequest{Name: "r", Keywords: []string{"x"}, Kind: command.KindToggleTheme}, 400},
		{"selection kind", voice.RuleRequest{Name: "r", Keywords: []string{"x"}, Kind: command.KindSelectIndexed}, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.CreateRule(ctx, tt.req)
			if err == nil {
				t.Fatal("expected error")
			}
			if code := response.StatusCode(err); code != tt.code {
				t.Errorf("expected status %d, got %d (%v)", tt.code, code, err)
			}
		})
	}

	if len(env.repo.rules) != 0 {
		t.Errorf("expected no rules stored, got %d", len(env.repo.rules))
	}
}

func TestRules_Duplicate(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	req := voice.RuleRequest{Name: "quiet", Keywords: []string{"hush"}, Kind: command.KindStopSpeaking}

	if _, err := env.svc.CreateRule(ctx, req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.svc.CreateRule(ctx, req); !errors.Is(err, voice.ErrRuleAlreadyExists) {
		t.Errorf("expected ErrRuleAlreadyExists, got %v", err)
	}
}
