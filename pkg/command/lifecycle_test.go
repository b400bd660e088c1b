package command

import "testing"

func TestLifecycle(t *testing.T) {
	l := NewLifecycle()
	l.Started()
	if !l.Listening {
		t.Fatal("expected listening after start")
	}

	restart, delay := l.Ended()
	if !restart || delay != RestartDelay {
		t.Errorf("expected restart after %v, got %v %v", RestartDelay, restart, delay)
	}

	if !l.Apply(Intent{Kind: KindStopListening}) {
		t.Error("expected stop listening to change state")
	}
	if !l.Paused() {
		t.Error("expected paused after stop listening")
	}

	restart, _ = l.Ended()
	if restart {
		t.Error("expected no restart while paused")
	}

	if l.Apply(Intent{Kind: KindStopListening}) {
		t.Error("expected second stop to be a no-op")
	}

	l.Apply(Intent{Kind: KindResumeListening})
	if l.Paused() || !l.Listening {
		t.Errorf("expected listening after resume, got %+v", l)
	}

	if l.Apply(Navigate("/")) {
		t.Error("expected navigation to leave lifecycle untouched")
	}
}
