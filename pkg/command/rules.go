package command

import (
	"fmt"
	"strings"
)

type Feature uint8

const (
	FeatureTheme Feature = 1 << iota
	FeaturePlayback
	FeatureDictation
	FeatureLabels

	// FeatureCore marks rules that are present in every profile.
	FeatureCore Feature = 0
)

type Profile string

const (
	ProfilePanel   Profile = "panel"
	ProfileBasic   Profile = "basic"
	ProfileClassic Profile = "classic"
	ProfileFull    Profile = "full"
)

const (
	DefaultHomePath = "/"
	ClassicHomePath = "/main-menu/"
)

func (p Profile) Features() (Feature, error) {
	switch p {
	case ProfilePanel, "":
		return FeatureTheme | FeatureDictation, nil
	case ProfileBasic:
		return FeatureCore, nil
	case ProfileClassic:
		return FeaturePlayback | FeatureLabels, nil
	case ProfileFull:
		return FeatureTheme | FeaturePlayback | FeatureDictation | FeatureLabels, nil
	default:
		return 0, fmt.Errorf("unknown profile %q", p)
	}
}

func (p Profile) HomePath() string {
	if p == ProfileClassic {
		return ClassicHomePath
	}
	return DefaultHomePath
}

// Rule triggers its intent when any keyword is a substring of the transcript.
type Rule struct {
	Name     string
	Keywords []string
	Intent   Intent
	Feature  Feature
}

func (r Rule) Match(transcript string) bool {
	for _, keyword := range r.Keywords {
		if keyword != "" && strings.Contains(transcript, keyword) {
			return true
		}
	}
	return false
}

func builtinRules(homePath string) []Rule {
	return []Rule{
		{Name: "theme_dark", Keywords: []string{"dark theme", "dark mode"}, Intent: ToggleTheme(ThemeDark), Feature: FeatureTheme},
		{Name: "theme_light", Keywords: []string{"light theme", "light mode"}, Intent: ToggleTheme(ThemeLight), Feature: FeatureTheme},
		{Name: "theme_toggle", Keywords: []string{"toggle theme", "switch theme", "change theme"}, Intent: ToggleTheme(ThemeToggle), Feature: FeatureTheme},

		// "say again" contains "ai", so repeat must be checked before navigation.
		{Name: "repeat", Keywords: []string{"repeat", "say again", "say that again"}, Intent: Intent{Kind: KindRepeatContent}, Feature: FeaturePlayback},

		{Name: "helper", Keywords: []string{"helper", "help someone"}, Intent: Navigate("/helper/")},
		{Name: "visually_impaired", Keywords: []string{"visually impaired", "blind", "impaired"}, Intent: Navigate("/visually-impaired/")},
		{Name: "books", Keywords: []string{"book"}, Intent: Navigate("/visually-impaired/books/")},
		{Name: "news", Keywords: []string{"news"}, Intent: Navigate("/visually-impaired/news/")},
		{Name: "headlines", Keywords: []string{"headline"}, Intent: Navigate("/visually-impaired/news/headlines/")},
		{Name: "technology", Keywords: []string{"technology", "tech"}, Intent: Navigate("/visually-impaired/news/technology/")},
		{Name: "sports", Keywords: []string{"sports", "sport"}, Intent: Navigate("/visually-impaired/news/sports/")},
		{Name: "business", Keywords: []string{"business"}, Intent: Navigate("/visually-impaired/news/business/")},
		{Name: "ai_helper", Keywords: []string{"ai", "assistant", "chat"}, Intent: Navigate("/visually-impaired/ai-helper/")},
		{Name: "custom_text", Keywords: []string{"custom text", "type text", "send text"}, Intent: Navigate("/helper/custom-text/")},
		{Name: "pdf", Keywords: []string{"pdf"}, Intent: Navigate("/helper/pdf-to-braille/")},
		{Name: "image", Keywords: []string{"image", "picture", "photo"}, Intent: Navigate("/helper/image-transcription/")},

		// Listening control stays in every profile and ahead of numeric extraction.
		{Name: "stop_listening", Keywords: []string{"stop listening", "stop voice", "pause voice"}, Intent: Intent{Kind: KindStopListening}},
		{Name: "resume_listening", Keywords: []string{"resume listening", "start listening", "continue listening", "resume voice"}, Intent: Intent{Kind: KindResumeListening}},

		{Name: "back", Keywords: []string{"go back", "back", "previous page"}, Intent: Intent{Kind: KindGoBack}},
		{Name: "home", Keywords: []string{"homepage", "home"}, Intent: Navigate(homePath)},

		{Name: "help", Keywords: []string{"help me", "what can i do", "options"}, Intent: Intent{Kind: KindHelp}, Feature: FeaturePlayback},
		{Name: "stop_speaking", Keywords: []string{"stop talking", "quiet", "silence"}, Intent: Intent{Kind: KindStopSpeaking}, Feature: FeaturePlayback},
	}
}

// BuiltinRules returns the keyword table enabled for the given features, in
// evaluation order.
func BuiltinRules(features Feature, homePath string) []Rule {
	if homePath == "" {
		homePath = DefaultHomePath
	}

	var rules []Rule
	for _, rule := range builtinRules(homePath) {
		if rule.Feature == FeatureCore || features&rule.Feature != 0 {
			rules = append(rules, rule)
		}
	}
	return rules
}

// resumeWords are the only phrases honoured while listening is paused.
var resumeWords = []string{"resume", "start", "continue"}

// dictationGuard lists phrases that keep their navigation meaning on the AI
// helper page instead of being captured as a question.
var dictationGuard = []string{
	"helper", "impaired", "book", "news", "back", "home", "pdf", "image",
	"custom text", "dark theme", "light theme", "toggle theme", "stop listening",
}

var submitWords = []string{"send", "submit", "ask"}

const dictationPage = "ai-helper"

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
