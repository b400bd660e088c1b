package voiceService

import (
	"context"
	"sync/atomic"
	"time"

	"BrailleVoice/internal/api/voice"
	voiceRepository "BrailleVoice/internal/api/voice/repository"
	"BrailleVoice/pkg/command"
	"BrailleVoice/pkg/events"
	"BrailleVoice/pkg/metrics"
	"BrailleVoice/pkg/redis"
	"BrailleVoice/pkg/utils"

	"github.com/sirupsen/logrus"
)

type IVoiceService interface {
	ProcessCommand(ctx context.Context, req voice.CommandRequest) (*voice.CommandResponse, error)
	CompleteUtterance(ctx context.Context, utteranceID string) (*voice.CompletionResponse, error)
	TestInterpret(ctx context.Context, req voice.InterpretTestRequest) (*voice.InterpretTestResponse, error)

	GetSession(ctx context.Context, sessionID string) (*voice.SessionState, error)
	RecordRecognition(ctx context.Context, sessionID string, req voice.RecognitionRequest) (*voice.RecognitionResponse, error)
	GetTheme(ctx context.Context, sessionID string) (*voice.ThemeResponse, error)
	SetTheme(ctx context.Context, sessionID string, req voice.ThemeRequest) (*voice.ThemeResponse, error)

	GetHistory(ctx context.Context, sessionID string, page, limit int) ([]voice.CommandHistory, int, error)
	GetAnalytics(ctx context.Context) (*voice.Analytics, error)

	GetRules(ctx context.Context) ([]voice.RuleResponse, error)
	CreateRule(ctx context.Context, req voice.RuleRequest) (*voice.RuleResponse, error)
	UpdateRule(ctx context.Context, name string, req voice.RuleRequest) (*voice.RuleResponse, error)
	DeleteRule(ctx context.Context, name string) error
	LoadRules(ctx context.Context) error
}

type Config struct {
	Profile         command.Profile
	HomePath        string
	DefaultTheme    command.ThemeMode
	SessionTTL      time.Duration
	PendingTTL      time.Duration
	AnalyticsWindow time.Duration
}

func (c *Config) withDefaults() *Config {
	cfg := *c
	if cfg.Profile == "" {
		cfg.Profile = command.ProfilePanel
	}
	if cfg.DefaultTheme == "" {
		cfg.DefaultTheme = command.ThemeLight
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = 30 * time.Second
	}
	if cfg.AnalyticsWindow <= 0 {
		cfg.AnalyticsWindow = 7 * 24 * time.Hour
	}
	return &cfg
}

type voiceService struct {
	log         *logrus.Logger
	voiceRepo   voiceRepository.Repository
	store       redis.IRedis
	publisher   events.IPublisher
	metrics     *metrics.Metrics
	utils       utils.IUtils
	config      *Config
	interpreter atomic.Pointer[interpreterRef]
}

type interpreterRef struct {
	command.IInterpreter
}

// NewVoiceService builds the service with the built-in rule table only.
// Custom rules are added by LoadRules.
func NewVoiceService(
	log *logrus.Logger,
	voiceRepo voiceRepository.Repository,
	store redis.IRedis,
	publisher events.IPublisher,
	m *metrics.Metrics,
	utils utils.IUtils,
	config *Config,
) (IVoiceService, error) {
	if config == nil {
		config = &Config{}
	}
	if m == nil {
		m = metrics.DefaultMetrics
	}

	s := &voiceService{
		log:       log,
		voiceRepo: voiceRepo,
		store:     store,
		publisher: publisher,
		metrics:   m,
		utils:     utils,
		config:    config.withDefaults(),
	}

	interpreter, err := s.buildInterpreter(nil)
	if err != nil {
		return nil, err
	}
	s.use(interpreter)

	return s, nil
}

func (s *voiceService) buildInterpreter(custom []command.Rule) (command.IInterpreter, error) {
	opts := []command.Option{command.WithLogger(s.log)}
	if s.config.HomePath != "" {
		opts = append(opts, command.WithHomePath(s.config.HomePath))
	}
	if len(custom) > 0 {
		opts = append(opts, command.WithRules(custom...))
	}
	return command.New(s.config.Profile, opts...)
}

func (s *voiceService) current() command.IInterpreter {
	return s.interpreter.Load().IInterpreter
}

func (s *voiceService) use(interpreter command.IInterpreter) {
	s.interpreter.Store(&interpreterRef{interpreter})
}
