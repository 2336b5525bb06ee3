package ports

import (
	"context"

	"document-approval-server/internal/model"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, exec sqlx.ExtContext, user *model.User) error
	FindByUUID(ctx context.Context, exec sqlx.ExtContext, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, exec sqlx.ExtContext, email string) (*model.User, error)
	UpdateRole(ctx context.Context, exec sqlx.ExtContext, uuid string, role model.Role) error
	ListAdminUUIDs(ctx context.Context, exec sqlx.ExtContext) ([]string, error)
}

type UserService interface {
	CreateUser(ctx context.Context, email, password string, role model.Role) (*model.User, error)
	PromoteAdmin(ctx context.Context, email string) (*model.User, error)
}

type AuthenticationService interface {
	Login(ctx context.Context, email, password string) (*model.AccessToken, error)
}

// Authorizer : единая проверка "владелец ИЛИ администратор" для всех операций
type Authorizer interface {
	Authorize(actor model.Actor, action model.Action, ownerUUID string) error
}

// TokenIssuer : выпуск access токена после успешного входа
type TokenIssuer interface {
	GenerateAccessToken(user *model.User) (*model.AccessToken, error)
}
