package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alxtravel/internal/models/db_models"
	"alxtravel/internal/models/request_models"
	"alxtravel/internal/models/response_models"
	"alxtravel/internal/repositories"
	"alxtravel/pkg/utils"
)

type AccountServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error)
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	jwtSecret   []byte
	jwtTTL      time.Duration
	logger      *zap.Logger
}

func NewAccountService(accountRepo repositories.AccountRepository, jwtSecret []byte, jwtTTL time.Duration, logger *zap.Logger) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
		logger:      logger.Named("accounts"),
	}
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {
	account, err := a.accountRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(request.Email)))
	if err != nil {
		a.logger.Error("failed to load account", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(a.jwtSecret, account.ID, account.Email, a.jwtTTL)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}

	return &response_models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(a.jwtTTL.Seconds()),
	}, nil
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) (*response_models.AccountResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))
	username := strings.TrimSpace(request.Username)
	if email == "" || username == "" || request.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", utils.ErrValidation)
	}

	existingAccount, err := a.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newAccount := &db_models.Account{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(request.FirstName),
		LastName:     strings.TrimSpace(request.LastName),
		PasswordHash: hashedPassword,
	}

	// the unique index still catches a concurrent registration
	if err := a.accountRepo.Create(ctx, newAccount); err != nil {
		return nil, err
	}

	return &response_models.AccountResponse{
		ID:        newAccount.ID,
		Username:  newAccount.Username,
		Email:     newAccount.Email,
		FirstName: newAccount.FirstName,
		LastName:  newAccount.LastName,
	}, nil
}
