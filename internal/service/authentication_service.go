package service

import (
	"context"
	"errors"
	"fmt"

	"document-approval-server/internal/model"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/security"
	"document-approval-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type AuthenticationService struct {
	db             sqlx.ExtContext
	userRepository ports.UserRepository
	tokenIssuer    ports.TokenIssuer
}

func NewAuthenticationService(db sqlx.ExtContext, userRepository ports.UserRepository, tokenIssuer ports.TokenIssuer) *AuthenticationService {
	return &AuthenticationService{
		db:             db,
		userRepository: userRepository,
		tokenIssuer:    tokenIssuer,
	}
}

// Login : одинаковая ошибка для неизвестного email и неверного пароля
func (s *AuthenticationService) Login(ctx context.Context, email, password string) (*model.AccessToken, error) {
	user, err := s.userRepository.FindByEmail(ctx, s.db, normalizeEmail(email))
	if errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("неверный email или пароль: %w", util.ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if err := security.CheckPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, util.ErrUnauthorized) {
			return nil, fmt.Errorf("неверный email или пароль: %w", util.ErrUnauthorized)
		}
		return nil, err
	}

	token, err := s.tokenIssuer.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токена: %w", err)
	}
	return token, nil
}
