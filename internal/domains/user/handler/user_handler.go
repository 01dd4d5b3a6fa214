package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"manifest-analyzer/internal/domains/user"
	"manifest-analyzer/internal/domains/user/service"
	"manifest-analyzer/internal/shared/response"
)

// UserHandler exposes registration and authentication endpoints
type UserHandler struct {
	service service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			response.Conflict(c, "email already registered")
			return
		}
		log.Error().Err(err).Msg("registration failed")
		response.InternalServerError(c, "failed to register")
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid email or password")
		case errors.Is(err, user.ErrUserInactive):
			response.Forbidden(c, "account is inactive")
		default:
			log.Error().Err(err).Msg("login failed")
			response.InternalServerError(c, "failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Refresh handles POST /auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	var req user.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidToken):
			response.Unauthorized(c, "invalid or expired refresh token")
		case errors.Is(err, user.ErrUserInactive):
			response.Forbidden(c, "account is inactive")
		default:
			log.Error().Err(err).Msg("token refresh failed")
			response.InternalServerError(c, "failed to refresh token")
		}
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// Me handles GET /auth/me
func (h *UserHandler) Me(c *gin.Context) {
	v, ok := c.Get("userID")
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	u, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		log.Error().Err(err).Msg("failed to load profile")
		response.InternalServerError(c, "failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, u)
}
