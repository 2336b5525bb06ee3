package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"document-approval-server/internal/model"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/security"
	"document-approval-server/internal/util"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type UserService struct {
	db             sqlx.ExtContext
	userRepository ports.UserRepository
}

func NewUserService(db sqlx.ExtContext, userRepository ports.UserRepository) *UserService {
	return &UserService{db: db, userRepository: userRepository}
}

func (s *UserService) CreateUser(ctx context.Context, email, password string, role model.Role) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("[UserService] некорректный email: %w", util.ErrInvalidInput)
	}
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, fmt.Errorf("[UserService] неизвестная роль %q: %w", role, util.ErrInvalidInput)
	}
	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("[UserService] %v: %w", err, util.ErrInvalidInput)
	}

	_, err := s.userRepository.FindByEmail(ctx, s.db, email)
	if err == nil {
		return nil, fmt.Errorf("[UserService] пользователь %s уже существует: %w", email, util.ErrInvalidInput)
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UUID:         uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.userRepository.CreateUser(ctx, s.db, user); err != nil {
		return nil, err
	}

	zap.L().Info("[UserService] пользователь создан", zap.String("email", email), zap.String("role", string(role)))
	return user, nil
}

func (s *UserService) PromoteAdmin(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepository.FindByEmail(ctx, s.db, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.Role == model.RoleAdmin {
		return user, nil
	}

	if err := s.userRepository.UpdateRole(ctx, s.db, user.UUID, model.RoleAdmin); err != nil {
		return nil, err
	}
	user.Role = model.RoleAdmin

	zap.L().Info("[UserService] пользователь назначен администратором", zap.String("email", user.Email))
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("пароль должен содержать минимум 8 символов")
	}

	var letterCount, digitCount int
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			letterCount++
		case unicode.IsDigit(c):
			digitCount++
		}
	}

	if letterCount == 0 {
		return fmt.Errorf("пароль должен содержать хотя бы одну букву")
	}
	if digitCount == 0 {
		return fmt.Errorf("пароль должен содержать хотя бы одну цифру")
	}
	return nil
}
