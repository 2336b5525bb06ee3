package security

import (
	"errors"
	"fmt"

	"document-approval-server/internal/util"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", util.LogError("[Security] ошибка хэширования пароля", err)
	}
	return string(hash), nil
}

// CheckPassword : ErrUnauthorized при несовпадении
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("неверный пароль: %w", util.ErrUnauthorized)
	}
	if err != nil {
		return util.LogError("[Security] ошибка проверки пароля", err)
	}
	return nil
}
