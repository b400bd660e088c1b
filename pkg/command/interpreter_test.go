package command

import (
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newInterpreter(t *testing.T, profile Profile, opts ...Option) *Interpreter {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	i, err := New(profile, opts...)
	if err != nil {
		t.Fatalf("unexpected error creating interpreter: %v", err)
	}
	return i
}

func TestInterpret_PanelProfile(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)

	tests := []struct {
		name       string
		transcript string
		expected   Intent
	}{
		{"dark theme", "dark theme please", ToggleTheme(ThemeDark)},
		{"dark mode", "switch to dark mode", ToggleTheme(ThemeDark)},
		{"light mode", "light mode", ToggleTheme(ThemeLight)},
		{"toggle theme", "toggle theme", ToggleTheme(ThemeToggle)},
		{"helper", "i want to help someone", Navigate("/helper/")},
		{"visually impaired", "visually impaired section", Navigate("/visually-impaired/")},
		{"books", "read me a book", Navigate("/visually-impaired/books/")},
		{"news", "news", Navigate("/visually-impaired/news/")},
		{"headlines", "top headlines", Navigate("/visually-impaired/news/headlines/")},
		{"technology", "technology", Navigate("/visually-impaired/news/technology/")},
		{"sports", "sports", Navigate("/visually-impaired/news/sports/")},
		{"business", "business", Navigate("/visually-impaired/news/business/")},
		{"assistant", "open the assistant", Navigate("/visually-impaired/ai-helper/")},
		{"custom text", "type text", Navigate("/helper/custom-text/")},
		{"pdf", "convert a pdf", Navigate("/helper/pdf-to-braille/")},
		{"image", "describe a photo", Navigate("/helper/image-transcription/")},
		{"stop listening", "stop listening", Intent{Kind: KindStopListening}},
		{"go back", "go back", Intent{Kind: KindGoBack}},
		{"home", "go home", Navigate("/")},
		{"three", "three", SelectIndexed(3)},
		{"ordinal suffix", "3rd option", SelectIndexed(3)},
		{"option prefix", "option 7", SelectIndexed(7)},
		{"ordinal word", "second", SelectIndexed(2)},
		{"digits", "12th", SelectIndexed(12)},
		{"empty", "", Unrecognized()},
		{"blank", "   ", Unrecognized()},
		{"nothing matches", "hello there", Unrecognized()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := i.Interpret(tt.transcript, Context{Page: "/"})
			if got.Kind != tt.expected.Kind {
				t.Fatalf("expected kind %s, got %s", tt.expected.Kind, got.Kind)
			}
			if got.Path != tt.expected.Path {
				t.Errorf("expected path %q, got %q", tt.expected.Path, got.Path)
			}
			if got.Index != tt.expected.Index {
				t.Errorf("expected index %d, got %d", tt.expected.Index, got.Index)
			}
			if got.Theme != tt.expected.Theme {
				t.Errorf("expected theme %q, got %q", tt.expected.Theme, got.Theme)
			}
		})
	}
}

func TestInterpret_StopListeningWinsOverNumbers(t *testing.T) {
	for _, profile := range []Profile{ProfilePanel, ProfileBasic, ProfileClassic, ProfileFull} {
		t.Run(string(profile), func(t *testing.T) {
			i := newInterpreter(t, profile)

			for _, transcript := range []string{"stop listening", "stop listening one", "stop listening option 2", "option 2 stop listening", "please stop voice 3"} {
				got := i.Interpret(transcript, Context{})
				if got.Kind != KindStopListening {
					t.Errorf("%q: expected stop_listening, got %s", transcript, got.Kind)
				}
			}
		})
	}
}

func TestInterpret_UppercaseInput(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)

	got := i.Interpret("  Dark Theme ", Context{})
	if got.Kind != KindToggleTheme || got.Theme != ThemeDark {
		t.Errorf("expected dark theme, got %+v", got)
	}
}

func TestInterpret_RecordsRuleName(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)

	if got := i.Interpret("book", Context{}); got.Rule != "books" {
		t.Errorf("expected rule 'books', got %q", got.Rule)
	}
	if got := i.Interpret("option 4", Context{}); got.Rule != "number" {
		t.Errorf("expected rule 'number', got %q", got.Rule)
	}
}

func TestInterpret_Paused(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)
	c := Context{Paused: true}

	tests := []struct {
		transcript string
		expected   Kind
	}{
		{"resume", KindResumeListening},
		{"please continue", KindResumeListening},
		{"start", KindResumeListening},
		{"read me a book", KindUnrecognized},
		{"option 3", KindUnrecognized},
		{"", KindUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			got := i.Interpret(tt.transcript, c)
			if got.Kind != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got.Kind)
			}
		})
	}
}

func TestInterpret_Dictation(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)
	c := Context{Page: "/visually-impaired/ai-helper/"}

	got := i.Interpret("what is the weather today", c)
	if got.Kind != KindDictate {
		t.Fatalf("expected dictate, got %s", got.Kind)
	}
	if got.Text != "what is the weather today" {
		t.Errorf("expected captured text, got %q", got.Text)
	}
	if got.Submit {
		t.Error("expected submit to be false")
	}

	got = i.Interpret("how does braille work send", c)
	if got.Kind != KindDictate || !got.Submit {
		t.Errorf("expected dictate with submit, got %+v", got)
	}

	got = i.Interpret("go back", c)
	if got.Kind != KindGoBack {
		t.Errorf("expected guard phrase to keep navigation, got %s", got.Kind)
	}

	other := newInterpreter(t, ProfileBasic)
	got = other.Interpret("what is the weather today", c)
	if got.Kind == KindDictate {
		t.Error("expected no dictation without the dictation feature")
	}
}

func TestInterpret_Profiles(t *testing.T) {
	tests := []struct {
		name       string
		profile    Profile
		transcript string
		expected   Intent
	}{
		{"basic ignores theme", ProfileBasic, "dark theme", Unrecognized()},
		{"basic keeps stop listening", ProfileBasic, "stop listening", Intent{Kind: KindStopListening}},
		{"classic keeps resume listening", ProfileClassic, "resume listening", Intent{Kind: KindResumeListening}},
		{"basic keeps navigation", ProfileBasic, "news", Navigate("/visually-impaired/news/")},
		{"classic home", ProfileClassic, "go home", Navigate("/main-menu/")},
		{"classic repeat", ProfileClassic, "repeat", Intent{Kind: KindRepeatContent}},
		{"say again is not the assistant", ProfileClassic, "say again", Intent{Kind: KindRepeatContent}},
		{"full help", ProfileFull, "help me", Intent{Kind: KindHelp}},
		{"full stop speaking", ProfileFull, "be quiet", Intent{Kind: KindStopSpeaking}},
		{"panel has no repeat", ProfilePanel, "repeat", Unrecognized()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := newInterpreter(t, tt.profile)
			got := i.Interpret(tt.transcript, Context{})
			if got.Kind != tt.expected.Kind {
				t.Fatalf("expected kind %s, got %s", tt.expected.Kind, got.Kind)
			}
			if got.Path != tt.expected.Path {
				t.Errorf("expected path %q, got %q", tt.expected.Path, got.Path)
			}
		})
	}
}

func TestInterpret_Labels(t *testing.T) {
	i := newInterpreter(t, ProfileClassic)
	targets := []Target{
		{Index: 1, Label: "User Profile"},
		{Index: 2, Label: "Latest Updates"},
		{Index: 3, Label: "Settings"},
	}

	got := i.Interpret("open settings", Context{Targets: targets})
	if got.Kind != KindSelectLabeled {
		t.Fatalf("expected select_labeled, got %s", got.Kind)
	}
	if got.Index != 3 || got.Label != "Settings" {
		t.Errorf("expected target 3 'Settings', got %d %q", got.Index, got.Label)
	}

	got = i.Interpret("profiles please", Context{Targets: targets})
	if got.Kind != KindSelectLabeled || got.Index != 1 {
		t.Errorf("expected keyword match on target 1, got %+v", got)
	}

	got = i.Interpret("xylophone", Context{Targets: targets})
	if got.Kind != KindUnrecognized {
		t.Errorf("expected unrecognized, got %s", got.Kind)
	}

	panel := newInterpreter(t, ProfilePanel)
	got = panel.Interpret("open settings", Context{Targets: targets})
	if got.Kind != KindUnrecognized {
		t.Errorf("expected panel profile to skip label matching, got %s", got.Kind)
	}
}

func TestInterpret_CustomRules(t *testing.T) {
	i := newInterpreter(t, ProfilePanel, WithRules(Rule{
		Name:     "settings",
		Keywords: []string{"settings"},
		Intent:   Navigate("/settings/"),
	}))

	got := i.Interpret("open settings", Context{})
	if got.Kind != KindNavigate || got.Path != "/settings/" {
		t.Errorf("expected custom navigation, got %+v", got)
	}
	if got.Rule != "settings" {
		t.Errorf("expected rule name 'settings', got %q", got.Rule)
	}

	got = i.Interpret("book settings", Context{})
	if got.Path != "/visually-impaired/books/" {
		t.Errorf("expected built-in rule to win, got %q", got.Path)
	}
}

func TestInterpret_HomePathOverride(t *testing.T) {
	i := newInterpreter(t, ProfilePanel, WithHomePath("/start/"))

	got := i.Interpret("home", Context{})
	if got.Path != "/start/" {
		t.Errorf("expected /start/, got %q", got.Path)
	}
}

func TestNew_UnknownProfile(t *testing.T) {
	if _, err := New("karaoke"); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestInterpret_Concurrent(t *testing.T) {
	i := newInterpreter(t, ProfileFull)

	var wg sync.WaitGroup
	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := i.Interpret("read me a book", Context{}); got.Path != "/visually-impaired/books/" {
				t.Errorf("expected books, got %q", got.Path)
			}
		}()
	}
	wg.Wait()
}

func TestResolve(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)
	targets := []Target{{Index: 1, Label: "Books"}, {Index: 2, Label: "News"}, {Index: 3, Label: "Helper"}}

	target, err := i.Resolve(SelectIndexed(2), targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Label != "News" {
		t.Errorf("expected News, got %q", target.Label)
	}

	tests := []struct {
		name   string
		intent Intent
	}{
		{"above range", SelectIndexed(5)},
		{"zero", SelectIndexed(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := i.Resolve(tt.intent, targets)
			if !errors.Is(err, ErrOutOfRange) {
				t.Fatalf("expected ErrOutOfRange, got %v", err)
			}
			var rangeErr *OutOfRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("expected *OutOfRangeError, got %T", err)
			}
			if rangeErr.Requested != tt.intent.Index || rangeErr.Available != 3 {
				t.Errorf("expected %d/3, got %d/%d", tt.intent.Index, rangeErr.Requested, rangeErr.Available)
			}
		})
	}

	if _, err := i.Resolve(Navigate("/"), targets); err == nil || errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected non-range error for navigation intent, got %v", err)
	}
}

func TestResolve_NonContiguousIndices(t *testing.T) {
	i := newInterpreter(t, ProfileFull)
	targets := []Target{{Index: 4, Label: "Read stories"}, {Index: 9, Label: "Listen music"}}

	got := i.Interpret("listen music", Context{Targets: targets})
	if got.Kind != KindSelectLabeled || got.Index != 9 || got.Position != 2 {
		t.Fatalf("expected labeled match on index 9 at position 2, got %+v", got)
	}

	target, err := i.Resolve(got, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Index != 9 || target.Label != "Listen music" {
		t.Errorf("expected target 9 'Listen music', got %+v", target)
	}

	tests := []struct {
		name    string
		intent  Intent
		index   int
		wantErr bool
	}{
		{"first option", SelectIndexed(1), 4, false},
		{"second option", SelectIndexed(2), 9, false},
		{"client index is not an option number", SelectIndexed(9), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := i.Resolve(tt.intent, targets)
			if tt.wantErr {
				if !errors.Is(err, ErrOutOfRange) {
					t.Fatalf("expected ErrOutOfRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.Index != tt.index {
				t.Errorf("expected index %d, got %d", tt.index, target.Index)
			}
		})
	}
}

func TestInterpret_HugeNumberIsOutOfRange(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)
	targets := []Target{{Index: 1, Label: "Books"}, {Index: 2, Label: "News"}}

	got := i.Interpret("option 99999999999999999999", Context{Targets: targets})
	if got.Kind != KindSelectIndexed {
		t.Fatalf("expected select_indexed, got %s", got.Kind)
	}

	_, err := i.Resolve(got, targets)
	var rangeErr *OutOfRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *OutOfRangeError, got %v", err)
	}
	if rangeErr.Available != 2 {
		t.Errorf("expected 2 available, got %d", rangeErr.Available)
	}
}

func TestResolve_FillsMissingIndex(t *testing.T) {
	i := newInterpreter(t, ProfilePanel)

	target, err := i.Resolve(SelectIndexed(1), []Target{{Label: "Only"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Index != 1 {
		t.Errorf("expected index 1, got %d", target.Index)
	}
}
