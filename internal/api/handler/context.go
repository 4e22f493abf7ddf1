package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/affirmly/affirmation-api/internal/api/middleware"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ctxIdentity returns the account identity injected by the Auth middleware.
func ctxIdentity(c echo.Context) (username string, userID int64, err error) {
	username, _ = c.Get(middleware.ContextUsername).(string)
	userID, _ = c.Get(middleware.ContextUserID).(int64)
	if username == "" || userID <= 0 {
		return "", 0, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, userID, nil
}

// bindAndValidate decodes the body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
