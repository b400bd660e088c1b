package voiceService

import (
	"context"
	"testing"
	"time"

	"BrailleVoice/internal/entity"
)

func TestSummarize(t *testing.T) {
	since := time.Now()
	stats := []entity.CommandStat{
		{Kind: "navigate", Outcome: entity.OutcomeExecuted, Total: 6},
		{Kind: "select_indexed", Outcome: entity.OutcomeNotAvailable, Total: 2},
		{Kind: "unrecognized", Outcome: entity.OutcomeUnrecognized, Total: 1},
		{Kind: "unrecognized", Outcome: entity.OutcomeIgnored, Total: 1},
	}

	got := summarize(since, stats)

	if got.TotalCommands != 10 {
		t.Errorf("expected 10 commands, got %d", got.TotalCommands)
	}
	if got.RecognitionRate != 0.8 {
		t.Errorf("expected recognition rate 0.8, got %v", got.RecognitionRate)
	}
	if got.ByKind["unrecognized"] != 2 {
		t.Errorf("expected 2 unrecognized, got %d", got.ByKind["unrecognized"])
	}
	if got.ByOutcome[string(entity.OutcomeExecuted)] != 6 {
		t.Errorf("expected 6 executed, got %d", got.ByOutcome[string(entity.OutcomeExecuted)])
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := summarize(time.Now(), nil)
	if got.TotalCommands != 0 || got.RecognitionRate != 0 {
		t.Errorf("expected empty analytics, got %+v", got)
	}
}

func TestGetAnalytics(t *testing.T) {
	env := newTestEnv(t, &Config{AnalyticsWindow: time.Hour})
	env.repo.stats = []entity.CommandStat{{Kind: "help", Outcome: entity.OutcomeExecuted, Total: 3}}

	got, err := env.svc.GetAnalytics(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalCommands != 3 || got.RecognitionRate != 1 {
		t.Errorf("unexpected analytics %+v", got)
	}
	if time.Since(got.Since) < time.Hour {
		t.Errorf("expected window of one hour, got since %v", got.Since)
	}
}
