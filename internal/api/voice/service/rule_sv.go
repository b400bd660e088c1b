package voiceService

import (
	"context"
	"strings"
	"time"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/internal/entity"
	"BrailleVoice/pkg/command"
	contextPkg "BrailleVoice/pkg/context"
	"BrailleVoice/pkg/response"

	"github.com/sirupsen/logrus"
)

func (s *voiceService) LoadRules(ctx context.Context) error {
	repo, err := s.voiceRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to create repository client")
		return err
	}

	stored, err := repo.Rules.GetActiveRules(ctx)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"error": err.Error(),
		}).Error("Failed to load custom rules")
		return err
	}

	custom := make([]command.Rule, 0, len(stored))
	for _, rule := range stored {
		custom = append(custom, rule.ToRule())
	}

	interpreter, err := s.buildInterpreter(custom)
	if err != nil {
		return err
	}
	s.use(interpreter)
	s.metrics.RulesLoaded.Set(float64(len(custom)))

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"rules":      len(custom),
		"profile":    interpreter.Profile(),
	}).Info("Voice rules loaded")

	return nil
}

func (s *voiceService) GetRules(ctx context.Context) ([]voice.RuleResponse, error) {
	repo, err := s.voiceRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	rules, err := repo.Rules.GetAllRules(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]voice.RuleResponse, 0, len(rules))
	for _, rule := range rules {
		res = append(res, toRuleResponse(rule))
	}
	return res, nil
}

func (s *voiceService) CreateRule(ctx context.Context, req voice.RuleRequest) (*voice.RuleResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	rule, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	repo, err := s.voiceRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	if err := repo.Rules.CreateRule(ctx, rule); err != nil {
		return nil, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return nil, err
	}

	s.reload(ctx)

	res := toRuleResponse(rule)
	return &res, nil
}

func (s *voiceService) UpdateRule(ctx context.Context, name string, req voice.RuleRequest) (*voice.RuleResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	req.Name = name
	rule, err := ruleFromRequest(req)
	if err != nil {
		return nil, err
	}

	repo, err := s.voiceRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	existing, err := repo.Rules.GetRuleByName(ctx, rule.Name)
	if err != nil {
		return nil, err
	}

	rule.CreatedAt = existing.CreatedAt
	rule.UpdatedAt = time.Now()
	if req.IsActive == nil {
		rule.IsActive = existing.IsActive
	}

	if err := repo.Rules.UpdateRule(ctx, rule); err != nil {
		return nil, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return nil, err
	}

	s.reload(ctx)

	res := toRuleResponse(rule)
	return &res, nil
}

func (s *voiceService) DeleteRule(ctx context.Context, name string) error {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.voiceRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return err
	}
	defer repo.Rollback()

	if err := repo.Rules.DeleteRule(ctx, strings.TrimSpace(name)); err != nil {
		return err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return err
	}

	s.reload(ctx)
	return nil
}

// reload swaps in a new interpreter after a rule change. The stored change is
// kept even when the reload fails.
func (s *voiceService) reload(ctx context.Context) {
	if err := s.LoadRules(ctx); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("Failed to reload voice rules")
	}
}

func ruleFromRequest(req voice.RuleRequest) (entity.CommandRule, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return entity.CommandRule{}, response.NewError(400, "rule name is required")
	}

	keywords := make([]string, 0, len(req.Keywords))
	for _, keyword := range req.Keywords {
		if k := command.Normalize(keyword); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return entity.CommandRule{}, response.NewError(400, "rule needs at least one keyword")
	}

	rule := entity.CommandRule{
		Name:     name,
		Keywords: keywords,
		Kind:     req.Kind,
		Position: req.Position,
		IsActive: true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	switch req.Kind {
	case command.KindNavigate:
		if !strings.HasPrefix(req.Path, "/") {
			return entity.CommandRule{}, response.NewError(400, "navigate rules need a path starting with /")
		}
		rule.Path = req.Path
	case command.KindToggleTheme:
		switch req.Theme {
		case command.ThemeDark, command.ThemeLight, command.ThemeToggle:
		default:
			return entity.CommandRule{}, voice.ErrInvalidTheme
		}
		rule.Theme = req.Theme
	case command.KindGoBack, command.KindHelp, command.KindRepeatContent, command.KindStopSpeaking,
		command.KindStopListening, command.KindResumeListening:
	default:
		return entity.CommandRule{}, voice.ErrInvalidRule
	}

	return rule, nil
}

func toRuleResponse(rule entity.CommandRule) voice.RuleResponse {
	return voice.RuleResponse{
		Name:      rule.Name,
		Keywords:  rule.Keywords,
		Kind:      rule.Kind,
		Path:      rule.Path,
		Theme:     rule.Theme,
		Position:  rule.Position,
		IsActive:  rule.IsActive,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}
