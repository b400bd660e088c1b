package voiceService

import (
	"context"
	"time"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/internal/entity"
	contextPkg "BrailleVoice/pkg/context"

	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *voiceService) GetHistory(ctx context.Context, sessionID string, page, limit int) ([]voice.CommandHistory, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	repo, err := s.voiceRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, 0, err
	}

	commands, total, err := repo.Commands.GetCommandsBySessionID(ctx, sessionID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}

	history := make([]voice.CommandHistory, 0, len(commands))
	for _, cmd := range commands {
		history = append(history, voice.CommandHistory{
			ID:         cmd.ID,
			Transcript: cmd.Transcript,
			Page:       cmd.Page,
			Kind:       cmd.Kind,
			Rule:       cmd.Rule,
			Target:     cmd.Target,
			Outcome:    cmd.Outcome,
			Speech:     cmd.Speech,
			CreatedAt:  cmd.CreatedAt,
		})
	}

	return history, total, nil
}

func (s *voiceService) GetAnalytics(ctx context.Context) (*voice.Analytics, error) {
	since := time.Now().Add(-s.config.AnalyticsWindow)

	repo, err := s.voiceRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	stats, err := repo.Commands.GetCommandStats(ctx, since)
	if err != nil {
		return nil, err
	}

	return summarize(since, stats), nil
}

// summarize folds per kind and outcome counts into totals. Unrecognized and
// ignored transcripts count against the recognition rate.
func summarize(since time.Time, stats []entity.CommandStat) *voice.Analytics {
	analytics := &voice.Analytics{
		Since:     since,
		ByKind:    make(map[string]int),
		ByOutcome: make(map[string]int),
	}

	missed := 0
	for _, stat := range stats {
		analytics.TotalCommands += stat.Total
		analytics.ByKind[stat.Kind] += stat.Total
		analytics.ByOutcome[string(stat.Outcome)] += stat.Total
		if stat.Outcome == entity.OutcomeUnrecognized || stat.Outcome == entity.OutcomeIgnored {
			missed += stat.Total
		}
	}

	if analytics.TotalCommands > 0 {
		analytics.RecognitionRate = float64(analytics.TotalCommands-missed) / float64(analytics.TotalCommands)
	}
	return analytics
}
