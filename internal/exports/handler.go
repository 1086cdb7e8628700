package exports

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeboost-backend/internal/projects"
	"resumeboost-backend/internal/shared/server/middleware"
	"resumeboost-backend/internal/shared/server/respond"
	"resumeboost-backend/internal/tasks"
)

type Handler struct {
	Svc   *Service
	Tasks *tasks.Service
}

func NewHandler(svc *Service, taskSvc *tasks.Service) *Handler {
	return &Handler{Svc: svc, Tasks: taskSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/:id/export", h.export)
	rg.GET("/exports/:id/download", h.download)
}

type exportRequest struct {
	Format string `json:"format" binding:"omitempty,max=16"`
}

func (h *Handler) export(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)
	projectID := c.Param("id")
	c.Set(middleware.ProjectIDKey, projectID)

	var req exportRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BindError(c, err)
			return
		}
	}
	format, err := NormalizeFormat(req.Format)
	if err != nil {
		writeError(c, err)
		return
	}
	if _, err := h.Svc.Projects.Lookup(ctx, userID, projectID); err != nil {
		writeError(c, err)
		return
	}

	task, err := h.Tasks.Run(ctx, userID, projectID, tasks.TypeExport, func(ctx context.Context) (any, error) {
		export, err := h.Svc.Export(ctx, userID, projectID, format)
		if err != nil {
			return nil, err
		}
		return gin.H{"exportId": export.ID, "format": export.Format}, nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.TaskIDKey, task.ID)
	respond.OK(c, gin.H{"taskId": task.ID})
}

func (h *Handler) download(c *gin.Context) {
	body, fileName, err := h.Svc.Open(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, -1, "application/pdf", body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, fileName),
	})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	case errors.Is(err, ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "unsupported_format", "only pdf export is supported", nil)
	case errors.Is(err, projects.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "export not found", nil)
	case errors.Is(err, ErrFileMissing):
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "export failed", nil)
	}
}
