package authService

import (
	"context"
	"time"

	"BrailleVoice/internal/api/auth"
	authRepository "BrailleVoice/internal/api/auth/repository"
	"BrailleVoice/pkg/bcrypt"
	"BrailleVoice/pkg/utils"

	"github.com/sirupsen/logrus"
)

const accessTokenTTL = time.Hour

type IAuthService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	CreateOperator(ctx context.Context, req auth.CreateOperatorRequest) (*auth.OperatorResponse, error)
	EnsureAdmin(ctx context.Context, username, email, password string) error
}

type authService struct {
	log      *logrus.Logger
	authRepo authRepository.Repository
	bcrypt   bcrypt.IBcrypt
	utils    utils.IUtils
}

func NewAuthService(
	log *logrus.Logger,
	authRepo authRepository.Repository,
	bcrypt bcrypt.IBcrypt,
	utils utils.IUtils,
) IAuthService {
	return &authService{
		log:      log,
		authRepo: authRepo,
		bcrypt:   bcrypt,
		utils:    utils,
	}
}
