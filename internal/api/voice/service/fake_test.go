package voiceService

import (
	"context"
	"sort"
	"sync"
	"time"

	"BrailleVoice/internal/api/voice"
	voiceRepository "BrailleVoice/internal/api/voice/repository"
	"BrailleVoice/internal/entity"
	"BrailleVoice/pkg/command"
	contextPkg "BrailleVoice/pkg/context"
)

type fakeRepository struct {
	mu       sync.Mutex
	commands []entity.VoiceCommand
	rules    map[string]entity.CommandRule
	stats    []entity.CommandStat
	commits  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{rules: make(map[string]entity.CommandRule)}
}

func (f *fakeRepository) NewClient(tx bool) (voiceRepository.Client, error) {
	return voiceRepository.Client{
		Commands: &fakeCommands{f},
		Rules:    &fakeRules{f},
		Commit: func() error {
			f.mu.Lock()
			f.commits++
			f.mu.Unlock()
			return nil
		},
		Rollback: func() error { return nil },
	}, nil
}

type fakeCommands struct{ f *fakeRepository }

func (c *fakeCommands) CreateCommand(ctx context.Context, cmd entity.VoiceCommand) error {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	c.f.commands = append(c.f.commands, cmd)
	return nil
}

func (c *fakeCommands) GetCommandsBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]entity.VoiceCommand, int, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()

	var matched []entity.VoiceCommand
	for _, cmd := range c.f.commands {
		if cmd.SessionID == sessionID {
			matched = append(matched, cmd)
		}
	}
	total := len(matched)
	if offset >= total {
		return []entity.VoiceCommand{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (c *fakeCommands) GetCommandStats(ctx context.Context, since time.Time) ([]entity.CommandStat, error) {
	return c.f.stats, nil
}

type fakeRules struct{ f *fakeRepository }

func (r *fakeRules) CreateRule(ctx context.Context, rule entity.CommandRule) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.rules[rule.Name]; ok {
		return voice.ErrRuleAlreadyExists
	}
	r.f.rules[rule.Name] = rule
	return nil
}

func (r *fakeRules) GetRuleByName(ctx context.Context, name string) (entity.CommandRule, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rule, ok := r.f.rules[name]
	if !ok {
		return entity.CommandRule{}, voice.ErrRuleNotFound
	}
	return rule, nil
}

func (r *fakeRules) GetAllRules(ctx context.Context) ([]entity.CommandRule, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	rules := make([]entity.CommandRule, 0, len(r.f.rules))
	for _, rule := range r.f.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Position != rules[j].Position {
			return rules[i].Position < rules[j].Position
		}
		return rules[i].Name < rules[j].Name
	})
	return rules, nil
}

func (r *fakeRules) GetActiveRules(ctx context.Context) ([]entity.CommandRule, error) {
	all, _ := r.GetAllRules(ctx)
	active := make([]entity.CommandRule, 0, len(all))
	for _, rule := range all {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (r *fakeRules) UpdateRule(ctx context.Context, rule entity.CommandRule) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.rules[rule.Name]; !ok {
		return voice.ErrRuleNotFound
	}
	r.f.rules[rule.Name] = rule
	return nil
}

func (r *fakeRules) DeleteRule(ctx context.Context, name string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.rules[name]; !ok {
		return voice.ErrRuleNotFound
	}
	delete(r.f.rules, name)
	return nil
}

type fakePublisher struct {
	mu       sync.Mutex
	keys     []string
	events   []any
	sessions []string
	delay    time.Duration
}

func (p *fakePublisher) Publish(ctx context.Context, key string, event any) error {
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	p.sessions = append(p.sessions, contextPkg.GetSessionID(ctx))
	return nil
}

// fakeInterpreter returns a fixed intent and records what it was asked.
type fakeInterpreter struct {
	intent     command.Intent
	resolveErr error
	transcript string
	context    command.Context
}

func (f *fakeInterpreter) Interpret(transcript string, c command.Context) command.Intent {
	f.transcript = transcript
	f.context = c
	return f.intent
}

func (f *fakeInterpreter) Resolve(intent command.Intent, targets []command.Target) (command.Target, error) {
	if f.resolveErr != nil {
		return command.Target{}, f.resolveErr
	}
	return targets[0], nil
}

func (f *fakeInterpreter) Profile() command.Profile { return "fake" }

func (p *fakePublisher) Close() error { return nil }
