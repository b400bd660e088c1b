package voiceService

import (
	"context"
	"errors"
	"time"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/internal/entity"
	"BrailleVoice/pkg/command"
	contextPkg "BrailleVoice/pkg/context"
	"BrailleVoice/pkg/redis"

	"github.com/sirupsen/logrus"
)

// loadSession returns the stored session or a fresh one when id is empty or
// unknown. Fresh sessions start listening with auto restart on.
func (s *voiceService) loadSession(ctx context.Context, id string) (entity.VoiceSession, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if id != "" {
		session, err := s.store.GetSession(ctx, id)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, redis.ErrNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
				"error":      err.Error(),
			}).Error("Failed to load voice session")
			return entity.VoiceSession{}, voice.ErrSessionStoreFailure
		}
	} else {
		newID, err := s.utils.NewID()
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to generate session ID")
			return entity.VoiceSession{}, voice.ErrVoiceCommandFailed
		}
		id = newID
	}

	now := time.Now()
	lifecycle := command.NewLifecycle()
	lifecycle.Started()

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
	}).Info("Voice session created")

	return entity.VoiceSession{
		ID:           id,
		Lifecycle:    lifecycle,
		Theme:        s.config.DefaultTheme,
		CreatedAt:    now,
		LastActivity: now,
	}, nil
}

func (s *voiceService) getSession(ctx context.Context, id string) (entity.VoiceSession, error) {
	session, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return entity.VoiceSession{}, voice.ErrSessionNotFound
		}
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
			"error":      err.Error(),
		}).Error("Failed to load voice session")
		return entity.VoiceSession{}, voice.ErrSessionStoreFailure
	}
	return session, nil
}

func (s *voiceService) saveSession(ctx context.Context, session entity.VoiceSession) error {
	session.LastActivity = time.Now()
	if err := s.store.SaveSession(ctx, session, s.config.SessionTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Failed to save voice session")
		return voice.ErrSessionStoreFailure
	}
	return nil
}

func (s *voiceService) GetSession(ctx context.Context, sessionID string) (*voice.SessionState, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	state := toSessionState(session)
	return &state, nil
}

func (s *voiceService) RecordRecognition(ctx context.Context, sessionID string, req voice.RecognitionRequest) (*voice.RecognitionResponse, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	res := &voice.RecognitionResponse{}
	switch req.Event {
	case "start":
		session.Lifecycle.Started()
	case "end":
		restart, delay := session.Lifecycle.Ended()
		res.Restart = restart
		res.DelayMS = delay.Milliseconds()
	default:
		return nil, voice.ErrInvalidRecognition
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	s.metrics.RecordRecognition(req.Event, res.Restart)
	res.Session = toSessionState(session)
	return res, nil
}

func (s *voiceService) GetTheme(ctx context.Context, sessionID string) (*voice.ThemeResponse, error) {
	session, err := s.getSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &voice.ThemeResponse{SessionID: session.ID, Theme: session.Theme}, nil
}

func (s *voiceService) SetTheme(ctx context.Context, sessionID string, req voice.ThemeRequest) (*voice.ThemeResponse, error) {
	switch req.Theme {
	case command.ThemeDark, command.ThemeLight, command.ThemeToggle:
	default:
		return nil, voice.ErrInvalidTheme
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.Theme = resolveTheme(session.Theme, req.Theme)
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	return &voice.ThemeResponse{SessionID: session.ID, Theme: session.Theme}, nil
}

func resolveTheme(current, requested command.ThemeMode) command.ThemeMode {
	switch requested {
	case command.ThemeDark, command.ThemeLight:
		return requested
	case command.ThemeToggle:
		if current == command.ThemeDark {
			return command.ThemeLight
		}
		return command.ThemeDark
	default:
		return current
	}
}

func toSessionState(session entity.VoiceSession) voice.SessionState {
	return voice.SessionState{
		ID:          session.ID,
		Listening:   session.Lifecycle.Listening,
		AutoRestart: session.Lifecycle.AutoRestart,
		Theme:       session.Theme,
		Page:        session.Page,
	}
}
