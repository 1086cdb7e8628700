package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeboost-backend/internal/shared/server/middleware"
	"resumeboost-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
}

func (h *Handler) me(c *gin.Context) {
	if h.Svc == nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "service unavailable", nil)
		return
	}
	user, err := h.Svc.GetActive(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "user not found", nil)
		case errors.Is(err, ErrInactive):
			respond.Error(c, http.StatusForbidden, "forbidden", "user is inactive", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		}
		return
	}
	respond.OK(c, user)
}
