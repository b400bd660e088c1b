package voiceService

import (
	"context"
	"errors"
	"time"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/internal/entity"
	"BrailleVoice/pkg/command"
	"BrailleVoice/pkg/events"
	contextPkg "BrailleVoice/pkg/context"
	"BrailleVoice/pkg/redis"

	"github.com/sirupsen/logrus"
)

func (s *voiceService) ProcessCommand(ctx context.Context, req voice.CommandRequest) (*voice.CommandResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	session, err := s.loadSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	if req.Page != "" {
		session.Page = req.Page
	}
	ctx = contextPkg.WithSessionID(ctx, session.ID)

	targets := toTargets(req.Targets)
	normalized := command.Normalize(req.Transcript)
	interpreter := s.current()

	interpretStart := time.Now()
	intent := interpreter.Interpret(normalized, command.Context{
		Page:    session.Page,
		Paused:  session.Lifecycle.Paused(),
		Targets: targets,
	})
	interpretTime := time.Since(interpretStart)

	res := &voice.CommandResponse{
		SessionID:  session.ID,
		Transcript: req.Transcript,
		Intent:     intent,
	}

	s.evaluate(interpreter, &session, intent, targets, res)

	if res.Outcome == entity.OutcomeExecuted && res.Action != nil && intent.Deferred() && res.Speech != "" {
		utteranceID, err := s.utils.NewID()
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to generate utterance ID")
			return nil, voice.ErrVoiceCommandFailed
		}

		err = s.store.SavePending(ctx, entity.PendingUtterance{
			ID:        utteranceID,
			SessionID: session.ID,
			Intent:    intent,
			Target:    res.Target,
			CreatedAt: time.Now(),
		}, s.config.PendingTTL)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": session.ID,
				"error":      err.Error(),
			}).Error("Failed to store pending utterance")
			return nil, voice.ErrSessionStoreFailure
		}

		s.metrics.UtterancesPending.Inc()
		res.AwaitSpeech = true
		res.UtteranceID = utteranceID
		res.Action = nil
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	res.Session = toSessionState(session)

	s.metrics.RecordCommand(string(intent.Kind), string(res.Outcome), interpretTime.Seconds())
	s.recordHistory(ctx, session, req, res)
	elapsed := time.Since(start)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": session.ID,
		"kind":       intent.Kind,
		"rule":       intent.Rule,
		"outcome":    res.Outcome,
		"elapsed":    elapsed.String(),
	}).Debug("Voice command processed")

	return res, nil
}

// evaluate decides the outcome, speech and action for an intent and applies
// any session side effects.
func (s *voiceService) evaluate(
	interpreter command.IInterpreter,
	session *entity.VoiceSession,
	intent command.Intent,
	targets []command.Target,
	res *voice.CommandResponse,
) {
	if !intent.Recognized() {
		if session.Lifecycle.Paused() {
			res.Outcome = entity.OutcomeIgnored
		} else {
			res.Outcome = entity.OutcomeUnrecognized
		}
		return
	}

	res.Outcome = entity.OutcomeExecuted
	res.Speech = command.Announce(intent)

	switch intent.Kind {
	case command.KindSelectIndexed, command.KindSelectLabeled:
		target, err := interpreter.Resolve(intent, targets)
		if err != nil {
			res.Outcome = entity.OutcomeNotAvailable
			res.Speech = command.NotAvailable(err)
			return
		}
		res.Target = &target
	case command.KindToggleTheme:
		session.Theme = resolveTheme(session.Theme, intent.Theme)
	case command.KindStopListening, command.KindResumeListening:
		session.Lifecycle.Apply(intent)
	case command.KindNavigate:
		// page changes once the redirect is released
	}

	res.Action = buildAction(intent, res.Target, session.Theme)
}

func (s *voiceService) CompleteUtterance(ctx context.Context, utteranceID string) (*voice.CompletionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	pending, err := s.store.TakePending(ctx, utteranceID)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			s.metrics.RecordCompletion(false)
			return nil, voice.ErrUtteranceNotFound
		}
		s.log.WithFields(logrus.Fields{
			"request_id":   requestID,
			"utterance_id": utteranceID,
			"error":        err.Error(),
		}).Error("Failed to take pending utterance")
		return nil, voice.ErrSessionStoreFailure
	}
	s.metrics.RecordCompletion(true)

	theme := command.ThemeMode("")
	session, err := s.store.GetSession(ctx, pending.SessionID)
	switch {
	case err == nil:
		theme = session.Theme
		if pending.Intent.Kind == command.KindNavigate {
			session.Page = pending.Intent.Path
			session.LastActivity = time.Now()
			if err := s.store.SaveSession(ctx, session, s.config.SessionTTL); err != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"session_id": session.ID,
					"error":      err.Error(),
				}).Warn("Failed to update session page")
			}
		}
	case !errors.Is(err, redis.ErrNotFound):
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": pending.SessionID,
			"error":      err.Error(),
		}).Warn("Failed to load session for completed utterance")
	}

	return &voice.CompletionResponse{
		UtteranceID: pending.ID,
		SessionID:   pending.SessionID,
		Action:      buildAction(pending.Intent, pending.Target, theme),
	}, nil
}

func (s *voiceService) TestInterpret(ctx context.Context, req voice.InterpretTestRequest) (*voice.InterpretTestResponse, error) {
	start := time.Now()
	interpreter := s.current()
	targets := toTargets(req.Targets)
	normalized := command.Normalize(req.Transcript)

	intent := interpreter.Interpret(normalized, command.Context{
		Page:    req.Page,
		Paused:  req.Paused,
		Targets: targets,
	})

	session := entity.VoiceSession{Theme: s.config.DefaultTheme, Lifecycle: command.NewLifecycle()}
	if req.Paused {
		session.Lifecycle.AutoRestart = false
	}

	res := &voice.CommandResponse{Intent: intent}
	s.evaluate(interpreter, &session, intent, targets, res)

	return &voice.InterpretTestResponse{
		Input:          req.Transcript,
		Normalized:     normalized,
		Profile:        string(interpreter.Profile()),
		Intent:         intent,
		Outcome:        res.Outcome,
		Speech:         res.Speech,
		ProcessingTime: time.Since(start).String(),
	}, nil
}

func (s *voiceService) recordHistory(ctx context.Context, session entity.VoiceSession, req voice.CommandRequest, res *voice.CommandResponse) {
	requestID := contextPkg.GetRequestID(ctx)

	id, err := s.utils.NewID()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to generate command ID")
		return
	}

	target := ""
	if res.Target != nil {
		target = res.Target.Label
	} else if res.Intent.Kind == command.KindNavigate {
		target = res.Intent.Path
	}

	cmd := entity.VoiceCommand{
		ID:         id,
		SessionID:  session.ID,
		Transcript: req.Transcript,
		Page:       session.Page,
		Kind:       string(res.Intent.Kind),
		Rule:       res.Intent.Rule,
		Target:     target,
		Outcome:    res.Outcome,
		Speech:     res.Speech,
		CreatedAt:  time.Now(),
	}

	if s.voiceRepo != nil {
		repo, err := s.voiceRepo.NewClient(false)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to create repository client")
		} else if err := repo.Commands.CreateCommand(ctx, cmd); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": session.ID,
				"error":      err.Error(),
			}).Warn("Failed to record voice command")
		}
	}

	if s.publisher != nil {
		event := events.IntentEvent{
			ID:         cmd.ID,
			SessionID:  cmd.SessionID,
			Transcript: cmd.Transcript,
			Page:       cmd.Page,
			Kind:       cmd.Kind,
			Rule:       cmd.Rule,
			Target:     cmd.Target,
			Outcome:    string(cmd.Outcome),
			Deferred:   res.AwaitSpeech,
			OccurredAt: cmd.CreatedAt,
		}
		if err := s.publisher.Publish(ctx, session.ID, event); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": session.ID,
				"error":      err.Error(),
			}).Warn("Failed to publish intent event")
		}
	}
}

func buildAction(intent command.Intent, target *command.Target, theme command.ThemeMode) *voice.Action {
	switch intent.Kind {
	case command.KindNavigate:
		return &voice.Action{Type: voice.ActionRedirect, Path: intent.Path}
	case command.KindSelectIndexed, command.KindSelectLabeled:
		action := &voice.Action{Type: voice.ActionClick, Index: intent.Index, Label: intent.Label}
		if target != nil {
			action.Index = target.Index
			action.Label = target.Label
		}
		return action
	case command.KindToggleTheme:
		return &voice.Action{Type: voice.ActionTheme, Theme: theme}
	case command.KindGoBack:
		return &voice.Action{Type: voice.ActionHistoryBack}
	case command.KindStopListening:
		return &voice.Action{Type: voice.ActionPause}
	case command.KindResumeListening:
		return &voice.Action{Type: voice.ActionResume}
	case command.KindRepeatContent:
		return &voice.Action{Type: voice.ActionRepeat}
	case command.KindStopSpeaking:
		return &voice.Action{Type: voice.ActionStopSpeaking}
	case command.KindHelp:
		return &voice.Action{Type: voice.ActionHelp, Text: command.HelpText}
	case command.KindDictate:
		return &voice.Action{Type: voice.ActionDictate, Text: intent.Text, Submit: intent.Submit}
	default:
		return nil
	}
}

func toTargets(reqs []voice.TargetRequest) []command.Target {
	targets := make([]command.Target, 0, len(reqs))
	for i, t := range reqs {
		index := t.Index
		if index == 0 {
			index = i + 1
		}
		targets = append(targets, command.Target{Index: index, Label: t.Label})
	}
	return targets
}
