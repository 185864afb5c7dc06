package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"planassist/internal/model"
	"planassist/internal/planner"
	"planassist/internal/service"
)

const maxUploadSize = 20 << 20 // 20 MiB

type AssistantHandler struct {
	assistant *service.AssistantService
	projects  *service.ProjectService
	logger    *zap.Logger
}

func NewAssistantHandler(assistant *service.AssistantService, projects *service.ProjectService, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, projects: projects, logger: logger}
}

// InitProjectID mints a project id for a new draft session.
func (h *AssistantHandler) InitProjectID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"project_id": h.assistant.InitProjectID().String()})
}

func (h *AssistantHandler) ProjectDraft(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	deadline, ok := planner.ParseDate(c.PostForm("deadline"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("ProjectDraft: missing file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if header.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}

	result, err := h.assistant.Draft(c.Request.Context(), header.Filename, content, title, deadline)
	if err != nil {
		h.logger.Error("ProjectDraft: generation failed",
			zap.String("file_name", header.Filename),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.logger.Info("ProjectDraft: success", zap.String("file_name", header.Filename))
	c.JSON(http.StatusOK, result)
}

type replanRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Message   string `json:"message"`
}

func (h *AssistantHandler) Replan(c *gin.Context) {
	userID := currentUserID(c)
	var req replanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Replan: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}

	result, err := h.assistant.Replan(c.Request.Context(), userID, projectID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
		case isSchedulingError(err):
			h.logger.Error("Replan: scheduling failed",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Replan: failed",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tasks"})
		}
		return
	}

	h.projects.InvalidateList(c.Request.Context(), userID)
	h.logger.Info("Replan: success", zap.String("project_id", projectID.String()))
	c.JSON(http.StatusOK, result)
}

type newProjectRequest struct {
	ProjectID string              `json:"project_id"`
	Project   planner.PlanProject `json:"project" binding:"required"`
	Chat      []chatEntry         `json:"chat_history"`
	Files     []fileEntry         `json:"files"`
}

type chatEntry struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type fileEntry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (h *AssistantHandler) NewProject(c *gin.Context) {
	userID := currentUserID(c)
	var req newProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("NewProject: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "project tree is required"})
		return
	}
	if req.Project.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project name is required"})
		return
	}

	in := service.NewProjectInput{Tree: req.Project}
	if req.ProjectID != "" {
		id, err := uuid.Parse(req.ProjectID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		in.ProjectID = id
	}
	for _, e := range req.Chat {
		in.Chat = append(in.Chat, model.ChatHistory{Sender: e.Sender, Message: e.Message})
	}
	for _, e := range req.Files {
		in.Files = append(in.Files, model.File{Name: e.Name, URL: e.URL})
	}

	p, err := h.assistant.NewProject(c.Request.Context(), userID, in)
	if err != nil {
		h.logger.Error("NewProject: failed to persist draft", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}

	h.projects.InvalidateList(c.Request.Context(), userID)
	h.logger.Info("NewProject: success", zap.String("project_id", p.ID.String()))
	c.JSON(http.StatusCreated, gin.H{"project_id": p.ID.String(), "name": p.Name})
}

func (h *AssistantHandler) History(c *gin.Context) {
	userID := currentUserID(c)
	projectID, err := uuid.Parse(c.Query("projectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
		return
	}

	history, files, err := h.assistant.History(c.Request.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("History: failed to fetch",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history, "files": files})
}

func (h *AssistantHandler) ResetHistory(c *gin.Context) {
	userID := currentUserID(c)
	projectID, err := uuid.Parse(c.Query("projectId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
		return
	}

	if err := h.assistant.ResetHistory(c.Request.Context(), userID, projectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		h.logger.Error("ResetHistory: failed to clear",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear history"})
		return
	}

	h.logger.Info("ResetHistory: success", zap.String("project_id", projectID.String()))
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
