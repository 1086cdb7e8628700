package usage

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeboost-backend/internal/shared/server/middleware"
	"resumeboost-backend/internal/shared/server/respond"
)

// Handler exposes billing endpoints.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches billing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/billing/plans", h.plans)
	rg.GET("/billing/me", h.me)
	rg.POST("/billing/mock/activate-pro", h.activatePro)
}

func (h *Handler) plans(c *gin.Context) {
	plans, err := h.Svc.Plans(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list plans")
		return
	}
	respond.OK(c, plans)
}

func (h *Handler) me(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to fetch usage")
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) activatePro(c *gin.Context) {
	sub, err := h.Svc.ActivatePro(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to activate plan")
		return
	}
	respond.OK(c, gin.H{"subscriptionId": sub.ID, "endAt": sub.EndAt})
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	case errors.Is(err, ErrPlanNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "plan not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
	}
}
