package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/affirmly/affirmation-api/internal/core/domain"
	"github.com/affirmly/affirmation-api/internal/core/ports"
)

type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64,printascii"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type updatePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

type accountResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// Create registers a new account.
//
// @Summary      Create an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Account credentials"
// @Success      201   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /create-account [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.accounts.Create(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, accountResponse{Message: "User created successfully.", User: user})
}

// Login verifies the password and returns a JWT.
//
// @Summary      Login
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Account credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, _, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Message: "Login successful.", Token: token})
}

// UpdatePassword replaces the password of the authenticated account.
// A token whose user_id no longer owns the username is rejected with 401.
//
// @Summary      Update password
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updatePasswordRequest  true  "New password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /update-password [put]
func (h *AccountHandler) UpdatePassword(c echo.Context) error {
	username, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.UpdatePassword(c.Request().Context(), username, userID, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully."})
}

// LookupID returns the numeric id of a username.
//
// @Summary      Look up a user id
// @Tags         accounts
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  idResponse
// @Failure      404       {object}  errorResponse
// @Router       /users/{username}/id [get]
func (h *AccountHandler) LookupID(c echo.Context) error {
	id, err := h.accounts.LookupID(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, idResponse{ID: id})
}

// Delete removes the authenticated account.
//
// @Summary      Delete account
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /delete-account [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	username, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.accounts.Delete(c.Request().Context(), username, userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted."})
}
