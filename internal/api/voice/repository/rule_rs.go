package voiceRepository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"BrailleVoice/internal/api/voice"
	"BrailleVoice/internal/entity"
	"BrailleVoice/pkg/command"
	contextPkg "BrailleVoice/pkg/context"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type CommandRuleDB struct {
	Name      sql.NullString `db:"name"`
	Keywords  sql.NullString `db:"keywords"`
	Kind      sql.NullString `db:"kind"`
	Path      sql.NullString `db:"path"`
	Theme     sql.NullString `db:"theme"`
	Position  sql.NullInt64  `db:"position"`
	IsActive  sql.NullBool   `db:"is_active"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

const uniqueViolation = "23505"

func (r *ruleRepository) CreateRule(ctx context.Context, rule entity.CommandRule) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV, err := ruleArgs(rule)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal keywords")
		return err
	}
	argsKV["created_at"] = rule.CreatedAt

	query, args, err := sqlx.Named(queryCreateRule, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRule")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"name":       rule.Name,
			}).Warn("CreateRule duplicate name")
			return voice.ErrRuleAlreadyExists
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating rule")
		return err
	}

	return nil
}

func (r *ruleRepository) GetRuleByName(ctx context.Context, name string) (entity.CommandRule, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var ruleDB CommandRuleDB

	query, args, err := sqlx.Named(queryGetRuleByName, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRuleByName named query preparation err")
		return entity.CommandRule{}, err
	}
	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&ruleDB); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"name":       name,
			}).Warn("GetRuleByName no rows found")
			return entity.CommandRule{}, voice.ErrRuleNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRuleByName execution err")
		return entity.CommandRule{}, err
	}

	return r.makeRule(ruleDB)
}

func (r *ruleRepository) GetAllRules(ctx context.Context) ([]entity.CommandRule, error) {
	return r.selectRules(ctx, queryGetAllRules)
}

func (r *ruleRepository) GetActiveRules(ctx context.Context) ([]entity.CommandRule, error) {
	return r.selectRules(ctx, queryGetActiveRules)
}

func (r *ruleRepository) selectRules(ctx context.Context, query string) ([]entity.CommandRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	var rows []CommandRuleDB
	if err := r.q.SelectContext(ctx, &rows, r.q.Rebind(query)); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to select rules")
		return nil, err
	}

	rules := make([]entity.CommandRule, 0, len(rows))
	for _, row := range rows {
		rule, err := r.makeRule(row)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"name":       row.Name.String,
				"error":      err.Error(),
			}).Warn("Skipping rule with unreadable keywords")
			continue
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

func (r *ruleRepository) UpdateRule(ctx context.Context, rule entity.CommandRule) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV, err := ruleArgs(rule)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to marshal keywords")
		return err
	}

	query, args, err := sqlx.Named(queryUpdateRule, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateRule")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when updating rule")
		return err
	}

	return r.requireAffected(result, requestID, rule.Name)
}

func (r *ruleRepository) DeleteRule(ctx context.Context, name string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteRule, map[string]interface{}{
		"name": name,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteRule")
		return err
	}
	query = r.q.Rebind(query)

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when deleting rule")
		return err
	}

	return r.requireAffected(result, requestID, name)
}

func (r *ruleRepository) requireAffected(result sql.Result, requestID, name string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"name":       name,
		}).Warn("Rule not found")
		return voice.ErrRuleNotFound
	}
	return nil
}

func ruleArgs(rule entity.CommandRule) (map[string]interface{}, error) {
	keywordsJSON, err := json.Marshal(rule.Keywords)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"name":       rule.Name,
		"keywords":   string(keywordsJSON),
		"kind":       string(rule.Kind),
		"path":       rule.Path,
		"theme":      string(rule.Theme),
		"position":   rule.Position,
		"is_active":  rule.IsActive,
		"updated_at": rule.UpdatedAt,
	}, nil
}

func (r *ruleRepository) makeRule(row CommandRuleDB) (entity.CommandRule, error) {
	var keywords []string
	if row.Keywords.Valid && row.Keywords.String != "" {
		if err := json.Unmarshal([]byte(row.Keywords.String), &keywords); err != nil {
			return entity.CommandRule{}, fmt.Errorf("decode keywords of rule %s: %w", row.Name.String, err)
		}
	}

	return entity.CommandRule{
		Name:      row.Name.String,
		Keywords:  keywords,
		Kind:      command.Kind(row.Kind.String),
		Path:      row.Path.String,
		Theme:     command.ThemeMode(row.Theme.String),
		Position:  int(row.Position.Int64),
		IsActive:  row.IsActive.Bool,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
