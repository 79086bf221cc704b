package auth

import (
	"net/http"

	"myapi/internal/pkg/server"

	"github.com/labstack/echo/v4"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	service *AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service *AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles user registration
func (h *AuthHandler) Register(c echo.Context) error {
	var dto RegisterDTO
	if err := server.Bind(c, &dto); err != nil {
		return err
	}

	resp, err := h.service.Register(c.Request().Context(), dto, clientInfo(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles user login
func (h *AuthHandler) Login(c echo.Context) error {
	var dto LoginDTO
	if err := server.Bind(c, &dto); err != nil {
		return err
	}

	resp, err := h.service.Login(c.Request().Context(), dto, clientInfo(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// Logout revokes the caller's session
func (h *AuthHandler) Logout(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.Logout(c.Request().Context(), identity); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c echo.Context) error {
	identity, err := CurrentIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.service.Me(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user.ToUserResponse())
}

func clientInfo(c echo.Context) ClientInfo {
	return ClientInfo{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
