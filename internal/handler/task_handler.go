package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"planassist/internal/gemini"
	"planassist/internal/model"
	"planassist/internal/planner"
	"planassist/internal/service"
)

type TaskHandler struct {
	replanner *service.ReplanService
	projects  *service.ProjectService
	logger    *zap.Logger
}

func NewTaskHandler(replanner *service.ReplanService, projects *service.ProjectService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{replanner: replanner, projects: projects, logger: logger}
}

type createTaskRequest struct {
	ProjectID   string  `json:"project_id" binding:"required"`
	MilestoneID string  `json:"milestone_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	Loading     float64 `json:"estimated_loading"`
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID := currentUserID(c)
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("CreateTask: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id, milestone_id and title are required"})
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

	t := &model.Task{
		MilestoneID:      milestoneID,
		Title:            req.Title,
		Description:      req.Description,
		EstimatedLoading: req.Loading,
	}
	if parsed, ok := planner.ParseDate(req.DueDate); ok {
		t.DueDate = &parsed
	}

	merged, err := h.replanner.CreateTask(c.Request.Context(), userID, projectID, t)
	if err != nil {
		h.respondReplanError(c, "CreateTask", err)
		return
	}

	h.projects.InvalidateList(c.Request.Context(), userID)
	h.logger.Info("CreateTask: success",
		zap.String("task_id", t.ID.String()),
		zap.String("project_id", projectID.String()),
	)
	c.JSON(http.StatusCreated, gin.H{
		"task_id":      t.ID.String(),
		"updated_json": merged,
	})
}

type updateTaskRequest struct {
	TaskID      string  `json:"task_id" binding:"required"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	Loading     float64 `json:"estimated_loading"`
	IsCompleted bool    `json:"is_completed"`
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID := currentUserID(c)
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("UpdateTask: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_id is required"})
		return
	}
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	t := &model.Task{
		ID:               taskID,
		Title:            req.Title,
		Description:      req.Description,
		EstimatedLoading: req.Loading,
		IsCompleted:      req.IsCompleted,
	}
	if parsed, ok := planner.ParseDate(req.DueDate); ok {
		t.DueDate = &parsed
	}

	merged, err := h.replanner.UpdateTask(c.Request.Context(), userID, t)
	if err != nil {
		h.respondReplanError(c, "UpdateTask", err)
		return
	}

	h.projects.InvalidateList(c.Request.Context(), userID)
	h.logger.Info("UpdateTask: success", zap.String("task_id", taskID.String()))
	c.JSON(http.StatusOK, gin.H{
		"task_id":      taskID.String(),
		"updated_json": merged,
	})
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID := currentUserID(c)
	taskID, err := uuid.Parse(c.Query("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	deleted, err := h.replanner.DeleteTask(c.Request.Context(), userID, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("DeleteTask: failed to delete",
			zap.String("task_id", taskID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	h.projects.InvalidateList(c.Request.Context(), userID)
	h.logger.Info("DeleteTask: success", zap.String("task_id", taskID.String()))
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "title": deleted.Title})
}

// respondReplanError maps the replan flow's failure modes: a missing
// row means the caller does not own the target, a model parse failure
// or rejected proposal surfaces its message, persistence failures get
// the generic body.
func (h *TaskHandler) respondReplanError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case isSchedulingError(err):
		h.logger.Error(op+": scheduling failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		h.logger.Error(op+": failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tasks"})
	}
}

func isSchedulingError(err error) bool {
	var pe *gemini.ParseError
	return errors.As(err, &pe) || errors.Is(err, planner.ErrValidation)
}
