package command

type Kind string

const (
	KindNavigate        Kind = "navigate"
	KindSelectIndexed   Kind = "select_indexed"
	KindSelectLabeled   Kind = "select_labeled"
	KindToggleTheme     Kind = "toggle_theme"
	KindStopListening   Kind = "stop_listening"
	KindResumeListening Kind = "resume_listening"
	KindRepeatContent   Kind = "repeat_content"
	KindGoBack          Kind = "go_back"
	KindHelp            Kind = "help"
	KindStopSpeaking    Kind = "stop_speaking"
	KindDictate         Kind = "dictate"
	KindUnrecognized    Kind = "unrecognized"
)

type ThemeMode string

const (
	ThemeDark   ThemeMode = "dark"
	ThemeLight  ThemeMode = "light"
	ThemeToggle ThemeMode = "toggle"
)

// Intent is the classified action derived from a transcript. Only the fields
// relevant to Kind are set.
type Intent struct {
	Kind     Kind      `json:"kind"`
	Path     string    `json:"path,omitempty"`
	Index    int       `json:"index,omitempty"`
	Position int       `json:"position,omitempty"`
	Label    string    `json:"label,omitempty"`
	Theme    ThemeMode `json:"theme,omitempty"`
	Text     string    `json:"text,omitempty"`
	Submit   bool      `json:"submit,omitempty"`
	Rule     string    `json:"rule,omitempty"`
	Score    float64   `json:"score,omitempty"`
}

func Navigate(path string) Intent       { return Intent{Kind: KindNavigate, Path: path} }
func SelectIndexed(n int) Intent        { return Intent{Kind: KindSelectIndexed, Index: n} }
func ToggleTheme(mode ThemeMode) Intent { return Intent{Kind: KindToggleTheme, Theme: mode} }
func Unrecognized() Intent              { return Intent{Kind: KindUnrecognized} }

func (i Intent) Recognized() bool {
	return i.Kind != KindUnrecognized && i.Kind != ""
}

// Deferred reports whether the intent's effect should wait until its
// announcement has finished playing.
func (i Intent) Deferred() bool {
	switch i.Kind {
	case KindNavigate, KindSelectIndexed, KindSelectLabeled, KindGoBack:
		return true
	case KindDictate:
		return i.Submit
	default:
		return false
	}
}

// Target is an interactive element on the page eligible for selection.
// Index is the 1-based index the client knows the element by and need not
// match its position in the snapshot.
type Target struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Context carries what the interpreter needs to know about the caller's
// situation for a single call.
type Context struct {
	Page    string
	Paused  bool
	Targets []Target
}

func (c Context) Count() int {
	return len(c.Targets)
}
