package command

import (
	"errors"
	"fmt"
	"strings"
)

const HelpText = "You can navigate using voice commands. Say the name of any button to select it, " +
	"or say the number of the option. Say back to go back, or repeat to hear the page content again. " +
	"Say help at any time to hear this message."

const (
	pausedText    = "Voice navigation paused. Say resume to continue."
	resumedText   = "Resuming voice navigation"
	capturedText  = "Got your question. Say send to submit, or keep speaking to add more."
	submittedText = "Sending to AI"
)

// Announce returns the text spoken back to the user for an intent. Intents
// that produce no speech return an empty string.
func Announce(intent Intent) string {
	switch intent.Kind {
	case KindNavigate:
		return "Navigating to " + PathWords(intent.Path)
	case KindSelectIndexed:
		return fmt.Sprintf("Selecting option %d", intent.Index)
	case KindSelectLabeled:
		return "Selecting: " + intent.Label
	case KindToggleTheme:
		if intent.Theme == ThemeToggle {
			return "Switched theme"
		}
		return fmt.Sprintf("Switched to %s theme", intent.Theme)
	case KindStopListening:
		return pausedText
	case KindResumeListening:
		return resumedText
	case KindGoBack:
		return "Going back"
	case KindHelp:
		return HelpText
	case KindDictate:
		if intent.Submit {
			return submittedText
		}
		return capturedText
	default:
		return ""
	}
}

// PathWords turns "/visually-impaired/news/" into "visually impaired news".
func PathWords(path string) string {
	var words []string
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		words = append(words, strings.ReplaceAll(segment, "-", " "))
	}
	if len(words) == 0 {
		return "home"
	}
	return strings.Join(words, " ")
}

// NotAvailable builds the spoken message for a selection outside the targets
// on the page. It returns an empty string for any other error.
func NotAvailable(err error) string {
	var rangeErr *OutOfRangeError
	if !errors.As(err, &rangeErr) {
		return ""
	}
	if rangeErr.Available == 0 {
		return fmt.Sprintf("Option %d not available. There are no options on this page.", rangeErr.Requested)
	}
	return fmt.Sprintf("Option %d not available. Please choose between 1 and %d.", rangeErr.Requested, rangeErr.Available)
}
