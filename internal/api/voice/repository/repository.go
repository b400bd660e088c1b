package voiceRepository

import (
	"time"

	"BrailleVoice/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Commands: &commandRepository{q: sqlExecutor, log: r.log},
		Rules:    &ruleRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Commands interface {
		CreateCommand(ctx context.Context, cmd entity.VoiceCommand) error
		GetCommandsBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]entity.VoiceCommand, int, error)
		GetCommandStats(ctx context.Context, since time.Time) ([]entity.CommandStat, error)
	}

	Rules interface {
		CreateRule(ctx context.Context, rule entity.CommandRule) error
		GetRuleByName(ctx context.Context, name string) (entity.CommandRule, error)
		GetAllRules(ctx context.Context) ([]entity.CommandRule, error)
		GetActiveRules(ctx context.Context) ([]entity.CommandRule, error)
		UpdateRule(ctx context.Context, rule entity.CommandRule) error
		DeleteRule(ctx context.Context, name string) error
	}

	Commit   func() error
	Rollback func() error
}

type commandRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}

type ruleRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
