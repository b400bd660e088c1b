package voice

import (
	"time"

	"BrailleVoice/internal/entity"
	"BrailleVoice/pkg/command"
)

type TargetRequest struct {
	Index int    `json:"index" validate:"omitempty,min=1"`
	Label string `json:"label" validate:"max=200"`
}

type CommandRequest struct {
	SessionID  string          `json:"session_id" validate:"omitempty,max=64"`
	Transcript string          `json:"transcript" validate:"max=500"`
	Page       string          `json:"page" validate:"omitempty,max=300"`
	Targets    []TargetRequest `json:"targets" validate:"max=100,dive"`
}

// Action tells the client what to do once the intent takes effect.
type Action struct {
	Type   string            `json:"type"`
	Path   string            `json:"path,omitempty"`
	Index  int               `json:"index,omitempty"`
	Label  string            `json:"label,omitempty"`
	Theme  command.ThemeMode `json:"theme,omitempty"`
	Text   string            `json:"text,omitempty"`
	Submit bool              `json:"submit,omitempty"`
}

const (
	ActionRedirect     = "redirect"
	ActionClick        = "click"
	ActionTheme        = "theme"
	ActionHistoryBack  = "history_back"
	ActionPause        = "pause_listening"
	ActionResume       = "resume_listening"
	ActionRepeat       = "repeat_content"
	ActionStopSpeaking = "stop_speaking"
	ActionHelp         = "help"
	ActionDictate      = "dictate"
)

type SessionState struct {
	ID          string            `json:"id"`
	Listening   bool              `json:"listening"`
	AutoRestart bool              `json:"auto_restart"`
	Theme       command.ThemeMode `json:"theme"`
	Page        string            `json:"page,omitempty"`
}

type CommandResponse struct {
	SessionID   string          `json:"session_id"`
	Transcript  string          `json:"transcript"`
	Intent      command.Intent  `json:"intent"`
	Outcome     entity.Outcome  `json:"outcome"`
	Speech      string          `json:"speech,omitempty"`
	AwaitSpeech bool            `json:"await_speech"`
	UtteranceID string          `json:"utterance_id,omitempty"`
	Action      *Action         `json:"action,omitempty"`
	Target      *command.Target `json:"target,omitempty"`
	Session     SessionState    `json:"session"`
}

type CompletionResponse struct {
	UtteranceID string  `json:"utterance_id"`
	SessionID   string  `json:"session_id"`
	Action      *Action `json:"action"`
}

type RecognitionRequest struct {
	Event string `json:"event" validate:"required,oneof=start end"`
}

type RecognitionResponse struct {
	Restart bool         `json:"restart"`
	DelayMS int64        `json:"delay_ms"`
	Session SessionState `json:"session"`
}

type ThemeRequest struct {
	Theme command.ThemeMode `json:"theme" validate:"required,oneof=dark light toggle"`
}

type ThemeResponse struct {
	SessionID string            `json:"session_id"`
	Theme     command.ThemeMode `json:"theme"`
}

type CommandHistory struct {
	ID         string         `json:"id"`
	Transcript string         `json:"transcript"`
	Page       string         `json:"page,omitempty"`
	Kind       string         `json:"kind"`
	Rule       string         `json:"rule,omitempty"`
	Target     string         `json:"target,omitempty"`
	Outcome    entity.Outcome `json:"outcome"`
	Speech     string         `json:"speech,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type Analytics struct {
	Since           time.Time      `json:"since"`
	TotalCommands   int            `json:"total_commands"`
	RecognitionRate float64        `json:"recognition_rate"`
	ByKind          map[string]int `json:"by_kind"`
	ByOutcome       map[string]int `json:"by_outcome"`
}

type InterpretTestRequest struct {
	Transcript string          `json:"transcript" validate:"required,max=500"`
	Page       string          `json:"page" validate:"omitempty,max=300"`
	Paused     bool            `json:"paused"`
	Targets    []TargetRequest `json:"targets" validate:"max=100,dive"`
}

type InterpretTestResponse struct {
	Input          string         `json:"input"`
	Normalized     string         `json:"normalized"`
	Profile        string         `json:"profile"`
	Intent         command.Intent `json:"intent"`
	Outcome        entity.Outcome `json:"outcome"`
	Speech         string         `json:"speech,omitempty"`
	ProcessingTime string         `json:"processing_time"`
}

type RuleRequest struct {
	Name     string            `json:"name" validate:"required,max=64"`
	Keywords []string          `json:"keywords" validate:"required,min=1,max=20,dive,required,max=100"`
	Kind     command.Kind      `json:"kind" validate:"required"`
	Path     string            `json:"path" validate:"omitempty,max=300"`
	Theme    command.ThemeMode `json:"theme" validate:"omitempty,oneof=dark light toggle"`
	Position int               `json:"position" validate:"min=0"`
	IsActive *bool             `json:"is_active"`
}

type RuleResponse struct {
	Name      string            `json:"name"`
	Keywords  []string          `json:"keywords"`
	Kind      command.Kind      `json:"kind"`
	Path      string            `json:"path,omitempty"`
	Theme     command.ThemeMode `json:"theme,omitempty"`
	Position  int               `json:"position"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// WSMessage is the envelope of the transcript websocket in both directions.
type WSMessage struct {
	Type        string          `json:"type"`
	SessionID   string          `json:"session_id,omitempty"`
	Transcript  string          `json:"transcript,omitempty"`
	Page        string          `json:"page,omitempty"`
	Targets     []TargetRequest `json:"targets,omitempty"`
	UtteranceID string          `json:"utterance_id,omitempty"`
	Event       string          `json:"event,omitempty"`
	Data        any             `json:"data,omitempty"`
	Error       string          `json:"error,omitempty"`
}

const (
	WSTypeTranscript  = "transcript"
	WSTypeSpeechEnd   = "speech_end"
	WSTypeRecognition = "recognition"
	WSTypeCommand     = "command"
	WSTypeAction      = "action"
	WSTypeError       = "error"
)
