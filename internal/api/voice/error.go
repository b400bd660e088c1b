package voice

import "BrailleVoice/pkg/response"

var (
	ErrSessionNotFound     = response.NewError(404, "session not found")
	ErrUtteranceNotFound   = response.NewError(404, "utterance not found or already completed")
	ErrRuleNotFound        = response.NewError(404, "rule not found")
	ErrRuleAlreadyExists   = response.NewError(409, "rule already exists")
	ErrInvalidRule         = response.NewError(400, "invalid rule")
	ErrInvalidTheme        = response.NewError(400, "theme must be dark, light or toggle")
	ErrInvalidRecognition  = response.NewError(400, "recognition event must be start or end")
	ErrVoiceCommandFailed  = response.NewError(500, "failed to process voice command")
	ErrSessionStoreFailure = response.NewError(503, "session store unavailable")
)
