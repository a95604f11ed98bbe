package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"sklad/internal/domain/model"
	"sklad/internal/usecase"
)

type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{
			Error:   he.Message,
			Code:    he.Code,
			Details: he.Details,
		})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

//middleware.AuthJWT が c.Set("user_id", int64) した値を取り出す

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get("user_id")
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

// 認証済みユーザーのスコープを解決する。以降の全操作はこのスコープで絞る。
func scopeFromContext(c echo.Context, scopes *usecase.ScopeResolver) (model.Scope, int64, error) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return model.Scope{}, 0, usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized", "unauthorized")
	}
	scope, err := scopes.Resolve(c.Request().Context(), userID)
	if err != nil {
		return model.Scope{}, 0, err
	}
	return scope, userID, nil
}
