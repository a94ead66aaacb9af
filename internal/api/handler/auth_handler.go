package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tasktracker/task-service/internal/core/ports"
)

// AuthHandler handles registration, password login, and the Google OAuth flow.
type AuthHandler struct {
	authService  ports.AuthService
	oauthService ports.OAuthService
	frontendURL  string
	log          zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, oauthService ports.OAuthService, frontendURL string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		oauthService: oauthService,
		frontendURL:  frontendURL,
		log:          log,
	}
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Email and password"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

// Login authenticates with email and password and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: token, Message: "Login successful"})
}

// Logout is informational only: tokens are stateless and cannot be revoked,
// the client discards its copy.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{
		Message: "Logout successful. Please clear the token on the client side.",
	})
}

// GoogleLogin redirects the browser to Google's consent screen.
//
// @Summary      Start Google OAuth login
// @Tags         auth
// @Success      302
// @Failure      500  {object}  map[string]string
// @Router       /api/auth/google [get]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	loginURL, err := h.oauthService.LoginURL(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, loginURL)
}

// GoogleCallback completes the OAuth flow. Success redirects to the frontend
// with the token in the query string; any failure redirects to the frontend
// login page with a generic error marker, never a raw fault.
//
// @Summary      Google OAuth callback
// @Tags         auth
// @Success      302
// @Router       /api/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")

	token, _, err := h.oauthService.HandleCallback(c.Request().Context(), state, code)
	if err != nil {
		h.log.Error().Err(err).Msg("google oauth callback failed")
		return c.Redirect(http.StatusFound, h.frontendURL+"/login?error=authentication_failed")
	}

	return c.Redirect(http.StatusFound, h.frontendURL+"/?token="+url.QueryEscape(token))
}
