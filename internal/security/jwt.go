package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"document-approval-server/config"
	"document-approval-server/internal/model"
	"document-approval-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserContextKey contextKey = "user"
)

type Claims struct {
	UserUUID string     `json:"user_uuid"`
	Role     model.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() model.Actor {
	return model.Actor{UUID: c.UserUUID, Role: c.Role}
}

type JWTService struct {
	*config.JWTConfig
}

func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{cfg}
}

func (service *JWTService) GenerateAccessToken(user *model.User) (*model.AccessToken, error) {
	timeDuration, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return nil, util.LogError("[JWT] ошибка парсинга времени жизни токена", err)
	}

	now := time.Now()
	expiresAt := now.Add(timeDuration)
	claims := Claims{
		UserUUID: user.UUID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "document-approval-server",
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return nil, util.LogError("[JWT] ошибка подписи токена", err)
	}

	return &model.AccessToken{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

func (service *JWTService) ValidateJWT(jwtTokenStr string) (*Claims, error) {
	var claims = &Claims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("неверный способ подписи токена: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("невалидный токен: %v: %w", err, util.ErrUnauthorized)
	}
	if !jwtToken.Valid || claims.UserUUID == "" {
		return nil, fmt.Errorf("невалидный токен: %w", util.ErrUnauthorized)
	}

	return claims, nil
}

func JWTMiddleware(jwtService *JWTService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, next))
	}
}

func handleAuthentication(jwtService *JWTService, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "требуется авторизация", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := jwtService.ValidateJWT(token)
		if err != nil {
			zap.L().Info("отклонён запрос с невалидным токеном", zap.Error(err))
			util.HandleError(writer, "невалидный токен", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func GetClaimsFromContext(ctx context.Context) (*Claims, error) {
	claims, ok := ctx.Value(UserContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, util.ErrUnauthorized
	}
	return claims, nil
}

// ContextWithClaims : используется в тестах обработчиков и фоновых командах
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}
