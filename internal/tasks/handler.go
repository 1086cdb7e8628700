package tasks

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
	rg.GET("/tasks/:id", h.get)
}

func (h *Handler) get(c *gin.Context) {
	taskID := c.Param("id")
	c.Set(middleware.TaskIDKey, taskID)
	task, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "task not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load task", nil)
		return
	}
	respond.OK(c, task)
}
