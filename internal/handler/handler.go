package handler

import (
	"net/http"

	"document-approval-server/internal/model"
	"document-approval-server/internal/security"
	"document-approval-server/internal/util"

	"go.uber.org/zap"
)

func actorFromRequest(w http.ResponseWriter, r *http.Request) (model.Actor, bool) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return model.Actor{}, false
	}
	return claims.Actor(), true
}

// writeServiceError : sentinel-ошибки сервиса -> HTTP код
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := util.StatusCode(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("ошибка обработки запроса",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	util.HandleError(w, util.PublicMessage(err), status)
}
