package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"document-approval-server/internal/model/requestresponse"
	"document-approval-server/internal/ports"
	"document-approval-server/internal/util"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService}
}

// Login godoc
// @Summary Аутентификация пользователя
// @Description Получение access токена по email и паролю. Роль (USER/ADMIN) хранится в токене.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Тело запроса"
// @Success 200 {object} requestresponse.LoginResponse "Успешная аутентификация"
// @Failure 400 {object} requestresponse.ErrorResponse "Некорректный JSON или пустые поля"
// @Failure 401 {object} requestresponse.ErrorResponse "Неверный email или пароль"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login [post]
func (h *AuthenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "некорректный JSON", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		util.HandleError(w, "email и password обязательны", http.StatusBadRequest)
		return
	}

	token, err := h.AuthenticationService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, requestresponse.LoginResponse{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
