// Package command classifies finalized voice transcripts into navigation,
// selection, theme and listening intents.
//
// Classification is a linear scan over an ordered keyword table; the first
// rule with a keyword contained in the transcript wins. When nothing matches,
// the transcript is scanned for an option number and, for profiles that
// enable it, for a fuzzy match against the labels of the visible targets.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var ErrOutOfRange = errors.New("option not available")

type OutOfRangeError struct {
	Requested int
	Available int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("option %d not available, %d targets", e.Requested, e.Available)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// IInterpreter is what the voice service needs from a classifier.
type IInterpreter interface {
	Interpret(transcript string, c Context) Intent
	Resolve(intent Intent, targets []Target) (Target, error)
	Profile() Profile
}

type Interpreter struct {
	log      *logrus.Logger
	profile  Profile
	features Feature
	rules    []Rule
	numbers  *NumberExtractor
}

type Option func(*Interpreter)

func WithLogger(log *logrus.Logger) Option {
	return func(i *Interpreter) {
		i.log = log
	}
}

// WithRules appends rules after the built-in table. They are evaluated in the
// order given.
func WithRules(rules ...Rule) Option {
	return func(i *Interpreter) {
		i.rules = append(i.rules, rules...)
	}
}

func WithHomePath(path string) Option {
	return func(i *Interpreter) {
		for idx, rule := range i.rules {
			if rule.Name == "home" {
				i.rules[idx].Intent = Navigate(path)
			}
		}
	}
}

func New(profile Profile, opts ...Option) (*Interpreter, error) {
	features, err := profile.Features()
	if err != nil {
		return nil, err
	}
	if profile == "" {
		profile = ProfilePanel
	}

	i := &Interpreter{
		log:      logrus.StandardLogger(),
		profile:  profile,
		features: features,
		rules:    BuiltinRules(features, profile.HomePath()),
		numbers:  NewNumberExtractor(),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i, nil
}

func (i *Interpreter) Profile() Profile {
	return i.profile
}

func (i *Interpreter) Interpret(transcript string, c Context) Intent {
	cmd := strings.ToLower(strings.TrimSpace(transcript))
	if cmd == "" {
		return Unrecognized()
	}

	if c.Paused {
		if containsAny(cmd, resumeWords) {
			return Intent{Kind: KindResumeListening, Rule: "resume"}
		}
		i.log.WithFields(logrus.Fields{
			"transcript": cmd,
		}).Debug("Ignoring command while listening is paused")
		return Unrecognized()
	}

	if i.features&FeatureDictation != 0 && strings.Contains(c.Page, dictationPage) && !containsAny(cmd, dictationGuard) {
		return Intent{
			Kind:   KindDictate,
			Text:   cmd,
			Submit: containsAny(cmd, submitWords),
			Rule:   "dictation",
		}
	}

	for _, rule := range i.rules {
		if rule.Match(cmd) {
			intent := rule.Intent
			intent.Rule = rule.Name
			return intent
		}
	}

	if n, _, ok := i.numbers.Extract(cmd); ok {
		intent := SelectIndexed(n)
		intent.Rule = "number"
		return intent
	}

	if i.features&FeatureLabels != 0 {
		if position, score, ok := MatchLabel(cmd, c.Targets); ok {
			target := c.Targets[position-1]
			return Intent{
				Kind:     KindSelectLabeled,
				Index:    target.Index,
				Position: position,
				Label:    target.Label,
				Score:    score,
				Rule:     "label",
			}
		}
	}

	i.log.WithFields(logrus.Fields{
		"transcript": cmd,
		"profile":    i.profile,
	}).Info("Command not recognized")

	return Unrecognized()
}

// Resolve returns the target a selection intent refers to. Spoken option
// numbers count positions in the snapshot; a labeled match carries the
// position of the target it matched. Selecting outside 1..len(targets) yields
// an *OutOfRangeError.
func (i *Interpreter) Resolve(intent Intent, targets []Target) (Target, error) {
	switch intent.Kind {
	case KindSelectIndexed, KindSelectLabeled:
	default:
		return Target{}, fmt.Errorf("intent %s does not select a target", intent.Kind)
	}

	position := intent.Position
	if position == 0 {
		position = intent.Index
	}

	if position < 1 || position > len(targets) {
		return Target{}, &OutOfRangeError{Requested: position, Available: len(targets)}
	}

	target := targets[position-1]
	if target.Index == 0 {
		target.Index = position
	}
	return target, nil
}
