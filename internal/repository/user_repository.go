package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"document-approval-server/config"
	"document-approval-server/internal/model"
	"document-approval-server/internal/util"

	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя
func (r *UserRepository) CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	query := exec.Rebind(`
		INSERT INTO users (uuid, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := exec.ExecContext(ctx, query, user.UUID, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		return util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}
	return nil
}

// FindByUUID : ищет пользователя по UUID
func (r *UserRepository) FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error) {
	query := exec.Rebind(`SELECT uuid, email, password_hash, role, created_at FROM users WHERE uuid = ?`)
	return r.findOne(ctx, exec, query, uuid)
}

// FindByEmail : ищет пользователя по email
func (r *UserRepository) FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error) {
	query := exec.Rebind(`SELECT uuid, email, password_hash, role, created_at FROM users WHERE email = ?`)
	return r.findOne(ctx, exec, query, email)
}

// UpdateRole : меняет роль пользователя
func (r *UserRepository) UpdateRole(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role) error {
	query := exec.Rebind(`UPDATE users SET role = ? WHERE uuid = ?`)
	result, err := exec.ExecContext(ctx, query, role, uuid)
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить роль", err)
	}
	return expectOneRow(result, fmt.Errorf("[UserRepo] пользователь %s: %w", uuid, util.ErrNotFound))
}

// ListAdminUUIDs : получатели уведомлений о новых запросах
func (r *UserRepository) ListAdminUUIDs(ctx context.Context, exec sqlx.ExtContext) ([]string, error) {
	query := exec.Rebind(`SELECT uuid FROM users WHERE role = ? ORDER BY created_at ASC`)

	uuids := []string{}
	if err := sqlx.SelectContext(ctx, exec, &uuids, query, model.RoleAdmin); err != nil {
		return nil, util.LogError("[UserRepo] не удалось получить список администраторов", err)
	}
	return uuids, nil
}

func (r *UserRepository) findOne(ctx context.Context, exec sqlx.ExtContext, query string, arg string) (*model.User, error) {
	var user model.User
	err := sqlx.GetContext(ctx, exec, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("[UserRepo] пользователь %s: %w", arg, util.ErrNotFound)
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}
