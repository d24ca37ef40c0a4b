package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "danceregistry/internal/delivery/http/helpers"
	"danceregistry/internal/delivery/http/middleware"
	"danceregistry/internal/domain"
)

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	User      *domain.AuthUser `json:"user"`
}

// VerifyResponse is the response body for POST /auth/verify
type VerifyResponse struct {
	Valid bool             `json:"valid"`
	User  *domain.AuthUser `json:"user"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Login godoc
// @Summary Log in as the admin
// @Description Authenticate with the configured admin email and password. Returns a JWT carrying the admin role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token, token_type, and user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "server configuration error")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer", User: user})
}

// Verify godoc
// @Summary Verify a bearer token
// @Description Validates the Authorization bearer token and returns the identity it carries.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains valid and user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/verify [post]
func (c *AuthController) Verify(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "token required")
		return
	}
	user, err := c.Service.Verify(r.Context(), token)
	if err != nil {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid token")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, VerifyResponse{Valid: true, User: user})
}
