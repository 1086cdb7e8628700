package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeboost-backend/internal/shared/server/respond"
	"resumeboost-backend/internal/shared/telemetry"
	"resumeboost-backend/internal/users"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/send-otp", h.sendOTP)
	rg.POST("/auth/login-otp", h.loginOTP)
}

type sendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type loginOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,min=4,max=12"`
}

func (h *Handler) sendOTP(c *gin.Context) {
	var req sendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	res, err := h.Svc.SendOTP(c.Request.Context(), req.Email)
	if err != nil {
		telemetry.Error("auth.send_otp_failed", map[string]any{"error": err})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to send code", nil)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) loginOTP(c *gin.Context) {
	var req loginOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}
	res, err := h.Svc.LoginOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidOTP):
			respond.Error(c, http.StatusBadRequest, "invalid_otp", "invalid or expired code", nil)
		case errors.Is(err, users.ErrInactive):
			respond.Error(c, http.StatusForbidden, "forbidden", "user is inactive", nil)
		default:
			telemetry.Error("auth.login_failed", map[string]any{"error": err})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "login failed", nil)
		}
		return
	}
	respond.OK(c, res)
}
