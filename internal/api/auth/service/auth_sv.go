package authService

import (
	"context"
	"errors"
	"time"

	"BrailleVoice/internal/api/auth"
	"BrailleVoice/internal/entity"
	"BrailleVoice/pkg/bcrypt"
	contextPkg "BrailleVoice/pkg/context"
	jwtPkg "BrailleVoice/pkg/jwt"

	"github.com/sirupsen/logrus"
)

func (s *authService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	repo, err := s.authRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	operator, err := repo.Operators.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrOperatorNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.bcrypt.ComparePassword(operator.Password, req.Password); err != nil {
		entry := s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"username":   req.Username,
		})
		if errors.Is(err, bcrypt.ErrMismatch) {
			entry.Warn("Password mismatch")
		} else {
			entry.WithField("error", err.Error()).Error("Stored password hash is unusable")
		}
		return nil, auth.ErrInvalidCredentials
	}

	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id":       operator.ID,
		"email":    operator.Email,
		"username": operator.Username,
		"role":     operator.Role,
	}, accessTokenTTL)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign access token")
		return nil, err
	}

	return &auth.LoginResponse{
		AccessToken:      token,
		ExpiresInMinutes: accessTokenTTL.Minutes(),
	}, nil
}

func (s *authService) CreateOperator(ctx context.Context, req auth.CreateOperatorRequest) (*auth.OperatorResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	hashed, err := s.bcrypt.HashPassword(req.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, auth.ErrPasswordTooLong
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return nil, err
	}

	id, err := s.utils.NewID()
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate operator ID")
		return nil, err
	}

	operator := entity.Operator{
		ID:        id,
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		Role:      req.Role,
		CreatedAt: time.Now(),
	}

	repo, err := s.authRepo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}
	defer repo.Rollback()

	if err := repo.Operators.CreateOperator(ctx, operator); err != nil {
		return nil, err
	}

	if err := repo.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return nil, err
	}

	return &auth.OperatorResponse{
		ID:       operator.ID,
		Username: operator.Username,
		Email:    operator.Email,
		Role:     operator.Role,
	}, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *authService) EnsureAdmin(ctx context.Context, username, email, password string) error {
	if username == "" || password == "" {
		return nil
	}

	repo, err := s.authRepo.NewClient(false)
	if err != nil {
		return err
	}

	_, err = repo.Operators.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, auth.ErrOperatorNotFound):
		return err
	}

	_, err = s.CreateOperator(ctx, auth.CreateOperatorRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     entity.RoleAdmin,
	})
	if errors.Is(err, auth.ErrOperatorAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}

	s.log.WithField("username", username).Info("Bootstrap admin operator created")
	return nil
}
