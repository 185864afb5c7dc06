package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"planassist/internal/planner"
	"planassist/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
	logger   *zap.Logger
}

func NewProjectHandler(projects *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, logger: logger}
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet("user_id").(uuid.UUID)
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID := currentUserID(c)
	summaries, err := h.projects.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("ListProjects: failed to fetch projects",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": summaries})
}

func (h *ProjectHandler) ProjectDetail(c *gin.Context) {
	userID := currentUserID(c)
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		h.logger.Warn("ProjectDetail: invalid project_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}

	detail, err := h.projects.Detail(c.Request.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("ProjectDetail: failed to fetch project",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateProjectRequest struct {
	ProjectID string  `json:"project_id" binding:"required"`
	Name      string  `json:"name"`
	Summary   string  `json:"summary"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	DueDate   string  `json:"due_date"`
	Loading   float64 `json:"estimated_loading"`
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID := currentUserID(c)
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("UpdateProject: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}

	existing, err := h.projects.Detail(c.Request.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch project"})
		return
	}

	p := existing.Project
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Summary != "" {
		p.Summary = req.Summary
	}
	if t, ok := planner.ParseDate(req.StartTime); ok {
		p.StartTime = &t
	}
	if t, ok := planner.ParseDate(req.EndTime); ok {
		p.EndTime = &t
	}
	if t, ok := planner.ParseDate(req.DueDate); ok {
		p.DueDate = &t
	}
	if req.Loading > 0 {
		p.EstimatedLoading = req.Loading
	}

	if err := h.projects.UpdateProject(c.Request.Context(), userID, p); err != nil {
		h.logger.Error("UpdateProject: failed to update",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (h *ProjectHandler) MilestoneDetail(c *gin.Context) {
	userID := currentUserID(c)
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}
	milestoneID, err := uuid.Parse(c.Query("milestone_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone_id"})
		return
	}

	detail, err := h.projects.MilestoneDetail(c.Request.Context(), userID, projectID, milestoneID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "milestone not found"})
			return
		}
		h.logger.Error("MilestoneDetail: failed to fetch milestone",
			zap.String("milestone_id", milestoneID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch milestone"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateMilestoneRequest struct {
	ProjectID   string `json:"project_id" binding:"required"`
	MilestoneID string `json:"milestone_id" binding:"required"`
	Summary     string `json:"summary"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func (h *ProjectHandler) UpdateMilestone(c *gin.Context) {
	userID := currentUserID(c)
	var req updateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("UpdateMilestone: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id and milestone_id are required"})
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}
	milestoneID, err := uuid.Parse(req.MilestoneID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone_id"})
		return
	}

	detail, err := h.projects.MilestoneDetail(c.Request.Context(), userID, projectID, milestoneID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "milestone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch milestone"})
		return
	}

	m := detail.Milestone
	if req.Summary != "" {
		m.Summary = req.Summary
	}
	if t, ok := planner.ParseDate(req.StartTime); ok {
		m.StartTime = &t
	}
	if t, ok := planner.ParseDate(req.EndTime); ok {
		m.EndTime = &t
	}

	if err := h.projects.UpdateMilestone(c.Request.Context(), userID, m); err != nil {
		h.logger.Error("UpdateMilestone: failed to update",
			zap.String("milestone_id", milestoneID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update milestone"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestone": m})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID := currentUserID(c)
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}

	if err := h.projects.Delete(c.Request.Context(), userID, projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("DeleteProject: failed to delete",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
		return
	}

	h.logger.Info("DeleteProject: success", zap.String("project_id", projectID.String()))
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
