package voiceRepository

import (
	"context"
	"database/sql"
	"time"

	"BrailleVoice/internal/entity"
	contextPkg "BrailleVoice/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type VoiceCommandDB struct {
	ID         sql.NullString `db:"id"`
	SessionID  sql.NullString `db:"session_id"`
	Transcript sql.NullString `db:"transcript"`
	Page       sql.NullString `db:"page"`
	Kind       sql.NullString `db:"kind"`
	Rule       sql.NullString `db:"rule"`
	Target     sql.NullString `db:"target"`
	Outcome    sql.NullString `db:"outcome"`
	Speech     sql.NullString `db:"speech"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r *commandRepository) CreateCommand(ctx context.Context, cmd entity.VoiceCommand) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         cmd.ID,
		"session_id": cmd.SessionID,
		"transcript": cmd.Transcript,
		"page":       cmd.Page,
		"kind":       cmd.Kind,
		"rule":       cmd.Rule,
		"target":     cmd.Target,
		"outcome":    string(cmd.Outcome),
		"speech":     cmd.Speech,
		"created_at": cmd.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateCommand, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateCommand")
		return err
	}
	query = r.q.Rebind(query)

	if _, err = r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating voice command")
		return err
	}

	return nil
}

func (r *commandRepository) GetCommandsBySessionID(ctx context.Context, sessionID string, limit, offset int) ([]entity.VoiceCommand, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountCommandsBySessionID, map[string]interface{}{
		"session_id": sessionID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandsBySessionID count query preparation err")
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandsBySessionID count execution err")
		return nil, 0, err
	}

	if total == 0 {
		return []entity.VoiceCommand{}, 0, nil
	}

	query, args, err := sqlx.Named(queryGetCommandsBySessionID, map[string]interface{}{
		"session_id": sessionID,
		"limit":      limit,
		"offset":     offset,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandsBySessionID named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	var rows []VoiceCommandDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandsBySessionID execution err")
		return nil, 0, err
	}

	commands := make([]entity.VoiceCommand, 0, len(rows))
	for _, row := range rows {
		commands = append(commands, r.makeVoiceCommand(row))
	}

	return commands, total, nil
}

func (r *commandRepository) GetCommandStats(ctx context.Context, since time.Time) ([]entity.CommandStat, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetCommandStats, map[string]interface{}{
		"since": since,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandStats named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var stats []entity.CommandStat
	if err := r.q.SelectContext(ctx, &stats, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandStats execution err")
		return nil, err
	}

	return stats, nil
}

func (r *commandRepository) makeVoiceCommand(row VoiceCommandDB) entity.VoiceCommand {
	return entity.VoiceCommand{
		ID:         row.ID.String,
		SessionID:  row.SessionID.String,
		Transcript: row.Transcript.String,
		Page:       row.Page.String,
		Kind:       row.Kind.String,
		Rule:       row.Rule.String,
		Target:     row.Target.String,
		Outcome:    entity.Outcome(row.Outcome.String),
		Speech:     row.Speech.String,
		CreatedAt:  row.CreatedAt,
	}
}
