package command

import "time"

// RestartDelay is how long the client waits before restarting recognition
// after the engine stops on its own.
const RestartDelay = 500 * time.Millisecond

// Lifecycle tracks whether recognition is running and whether it should be
// restarted when the engine ends a session.
type Lifecycle struct {
	AutoRestart bool `json:"auto_restart"`
	Listening   bool `json:"listening"`
}

func NewLifecycle() Lifecycle {
	return Lifecycle{AutoRestart: true}
}

func (l *Lifecycle) Started() {
	l.Listening = true
}

// Ended records that the engine stopped and reports whether the client should
// start it again after RestartDelay.
func (l *Lifecycle) Ended() (bool, time.Duration) {
	l.Listening = false
	if !l.AutoRestart {
		return false, 0
	}
	return true, RestartDelay
}

// Apply updates the state for a lifecycle intent and reports whether it
// changed anything.
func (l *Lifecycle) Apply(intent Intent) bool {
	switch intent.Kind {
	case KindStopListening:
		changed := l.AutoRestart || l.Listening
		l.AutoRestart = false
		l.Listening = false
		return changed
	case KindResumeListening:
		changed := !l.AutoRestart || !l.Listening
		l.AutoRestart = true
		l.Listening = true
		return changed
	default:
		return false
	}
}

func (l Lifecycle) Paused() bool {
	return !l.AutoRestart
}
