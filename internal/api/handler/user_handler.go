package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

// UserHandler handles HTTP requests for account operations.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a new account and returns its auth token in the
// x-auth-token response header.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Header       201   {string}  x-auth-token  "Signed auth token for the new account"
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	user, signed, err := h.service.Register(c.Request().Context(), toRegisterInput(req))
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrUserExists.Error()})
		}
		return err
	}

	c.Response().Header().Set("x-auth-token", signed)
	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Me returns the profile of the calling account, resolved from the token
// claims injected by the auth middleware.
//
// @Summary      Get the current user's profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	user, err := h.service.Profile(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, toUserResponse(user))
}
