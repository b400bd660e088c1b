package authRepository

import (
	"context"
	"database/sql"
	"errors"

	"BrailleVoice/internal/api/auth"
	"BrailleVoice/internal/entity"
	contextPkg "BrailleVoice/pkg/context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func (r *operatorRepository) CreateOperator(ctx context.Context, operator entity.Operator) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateOperator, operator)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateOperator named query preparation err")
		return err
	}

	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return auth.ErrOperatorAlreadyExists
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateOperator execution err")
		return err
	}

	return nil
}

func (r *operatorRepository) GetByUsername(ctx context.Context, username string) (entity.Operator, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var operator entity.Operator

	argsKV := map[string]interface{}{
		"username": username,
	}

	query, args, err := sqlx.Named(queryGetByUsername, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername named query preparation err")
		return entity.Operator{}, err
	}

	query = r.q.Rebind(query)

	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&operator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"username":   username,
			}).Warn("GetByUsername no rows found")
			return entity.Operator{}, auth.ErrOperatorNotFound
		}

		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByUsername execution err")
		return entity.Operator{}, err
	}

	return operator, nil
}
