package events

import "time"

// IntentEvent is published once per classified transcript.
type IntentEvent struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Transcript string    `json:"transcript"`
	Page       string    `json:"page,omitempty"`
	Kind       string    `json:"kind"`
	Rule       string    `json:"rule,omitempty"`
	Target     string    `json:"target,omitempty"`
	Outcome    string    `json:"outcome"`
	Deferred   bool      `json:"deferred"`
	OccurredAt time.Time `json:"occurred_at"`
}
