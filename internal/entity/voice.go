package entity

import (
	"time"

	"BrailleVoice/pkg/command"
)

type Outcome string

const (
	OutcomeExecuted     Outcome = "executed"
	OutcomeNotAvailable Outcome = "not_available"
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeIgnored      Outcome = "ignored"
)

// VoiceCommand is one classified transcript kept in the history table.
type VoiceCommand struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Transcript string    `json:"transcript"`
	Page       string    `json:"page"`
	Kind       string    `json:"kind"`
	Rule       string    `json:"rule"`
	Target     string    `json:"target"`
	Outcome    Outcome   `json:"outcome"`
	Speech     string    `json:"speech"`
	CreatedAt  time.Time `json:"created_at"`
}

type CommandStat struct {
	Kind    string  `db:"kind"`
	Outcome Outcome `db:"outcome"`
	Total   int     `db:"total"`
}

// VoiceSession is the per client state held in redis between commands.
type VoiceSession struct {
	ID           string            `json:"id"`
	Lifecycle    command.Lifecycle `json:"lifecycle"`
	Theme        command.ThemeMode `json:"theme"`
	Page         string            `json:"page"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`
}

// PendingUtterance holds an action that must wait until the client has
// finished speaking its announcement.
type PendingUtterance struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Intent    command.Intent  `json:"intent"`
	Target    *command.Target `json:"target,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// CommandRule is an operator defined keyword rule evaluated after the built-in
// table.
type CommandRule struct {
	Name      string            `json:"name"`
	Keywords  []string          `json:"keywords"`
	Kind      command.Kind      `json:"kind"`
	Path      string            `json:"path"`
	Theme     command.ThemeMode `json:"theme"`
	Position  int               `json:"position"`
	IsActive  bool              `json:"is_active"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (r CommandRule) ToRule() command.Rule {
	return command.Rule{
		Name:     r.Name,
		Keywords: r.Keywords,
		Intent: command.Intent{
			Kind:  r.Kind,
			Path:  r.Path,
			Theme: r.Theme,
		},
	}
}
