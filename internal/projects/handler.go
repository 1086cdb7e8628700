package projects

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumeboost-backend/internal/pipeline"
	"resumeboost-backend/internal/shared/server/middleware"
	"resumeboost-backend/internal/shared/server/respond"
	"resumeboost-backend/internal/tasks"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service. Parse, score and rewrite run
// as tracked tasks and answer with the task id.
type Handler struct {
	Svc   *Service
	Tasks *tasks.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, taskSvc *tasks.Service) *Handler {
	return &Handler{Svc: svc, Tasks: taskSvc}
}

// RegisterRoutes attaches project and section routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects", h.create)
	rg.POST("/projects/from-file", h.createFromFile)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
	rg.DELETE("/projects/:id", h.delete)
	rg.POST("/projects/:id/parse", h.parse)
	rg.POST("/projects/:id/score", h.score)
	rg.POST("/projects/:id/jd/analyze", h.analyzeJD)
	rg.POST("/projects/:id/rewrite", h.rewrite)
	rg.PUT("/sections/:id", h.updateSection)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	project, err := h.Svc.CreateFromText(c.Request.Context(), middleware.UserIDFromContext(c), CreateInput{
		Title:           req.Title,
		TargetRole:      req.TargetRole,
		TargetCity:      req.TargetCity,
		YearsExperience: req.YearsExperience,
		SourceText:      req.SourceText,
	})
	if err != nil {
		writeError(c, err, "failed to create project")
		return
	}
	respond.Data(c, http.StatusCreated, project)
}

func (h *Handler) createFromFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	var form createFileForm
	if err := c.ShouldBind(&form); err != nil {
		respond.BindError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	project, err := h.Svc.CreateFromFile(c.Request.Context(), middleware.UserIDFromContext(c), CreateInput{
		Title:           form.Title,
		TargetRole:      form.TargetRole,
		TargetCity:      form.TargetCity,
		YearsExperience: form.YearsExperience,
	}, fileHeader.Filename, file)
	if err != nil {
		writeError(c, err, "failed to create project")
		return
	}
	respond.Data(c, http.StatusCreated, project)
}

func (h *Handler) list(c *gin.Context) {
	projects, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to list projects")
		return
	}
	respond.OK(c, projects)
}

func (h *Handler) get(c *gin.Context) {
	projectID := projectParam(c)
	detail, err := h.Svc.Get(c.Request.Context(), middleware.UserIDFromContext(c), projectID)
	if err != nil {
		writeError(c, err, "failed to fetch project")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) delete(c *gin.Context) {
	projectID := projectParam(c)
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), projectID); err != nil {
		writeError(c, err, "failed to delete project")
		return
	}
	respond.OK(c, gin.H{"deleted": true})
}

func (h *Handler) parse(c *gin.Context) {
	h.runTask(c, tasks.TypeParse, func(ctx context.Context, userID, projectID string) (any, error) {
		sections, err := h.Svc.Parse(ctx, userID, projectID)
		if err != nil {
			return nil, err
		}
		return gin.H{"sectionCount": len(sections)}, nil
	})
}

func (h *Handler) score(c *gin.Context) {
	h.runTask(c, tasks.TypeScore, func(ctx context.Context, userID, projectID string) (any, error) {
		score, err := h.Svc.Score(ctx, userID, projectID)
		if err != nil {
			return nil, err
		}
		return gin.H{
			"atsScore":          score.ATS,
			"completenessScore": score.Completeness,
			"matchScore":        score.Match,
		}, nil
	})
}

func (h *Handler) rewrite(c *gin.Context) {
	var req rewriteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BindError(c, err)
			return
		}
	}
	mode := pipeline.ParseMode(req.Mode)
	useJD := req.useJD()

	h.runTask(c, tasks.TypeRewrite, func(ctx context.Context, userID, projectID string) (any, error) {
		sections, err := h.Svc.Rewrite(ctx, userID, projectID, mode, useJD)
		if err != nil {
			return nil, err
		}
		return gin.H{"sectionCount": len(sections)}, nil
	})
}

// runTask checks ownership up front so unknown projects answer 404, then
// records the operation as a task. Operation failures land on the task.
func (h *Handler) runTask(c *gin.Context, taskType string, fn func(ctx context.Context, userID, projectID string) (any, error)) {
	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)
	projectID := projectParam(c)

	if _, err := h.Svc.Lookup(ctx, userID, projectID); err != nil {
		writeError(c, err, "failed to load project")
		return
	}

	task, err := h.Tasks.Run(ctx, userID, projectID, taskType, func(ctx context.Context) (any, error) {
		return fn(ctx, userID, projectID)
	})
	if err != nil {
		writeError(c, err, "failed to run task")
		return
	}
	c.Set(middleware.TaskIDKey, task.ID)
	respond.OK(c, taskResponse{TaskID: task.ID})
}

func (h *Handler) analyzeJD(c *gin.Context) {
	projectID := projectParam(c)

	var req analyzeJDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	profile, err := h.Svc.AnalyzeJD(c.Request.Context(), middleware.UserIDFromContext(c), projectID, req.JDText)
	if err != nil {
		writeError(c, err, "failed to analyze job description")
		return
	}
	respond.OK(c, profile)
}

func (h *Handler) updateSection(c *gin.Context) {
	var req updateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BindError(c, err)
		return
	}

	section, err := h.Svc.UpdateSection(c.Request.Context(), middleware.UserIDFromContext(c), c.Param("id"), SectionPatch{
		OptimizedText: req.OptimizedText,
		Accepted:      req.Accepted,
	})
	if err != nil {
		writeError(c, err, "failed to update section")
		return
	}
	c.Set(middleware.ProjectIDKey, section.ProjectID)
	respond.OK(c, section)
}

func projectParam(c *gin.Context) string {
	projectID := c.Param("id")
	c.Set(middleware.ProjectIDKey, projectID)
	return projectID
}

func writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusRequestTimeout, "timeout", "request canceled", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
	case errors.Is(err, ErrSectionNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "section not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, pipeline.ErrEmptySourceText):
		respond.Error(c, http.StatusBadRequest, "empty_source_text", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", message, nil)
	}
}
