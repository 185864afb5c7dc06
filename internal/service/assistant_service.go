package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"planassist/internal/gemini"
	"planassist/internal/model"
	"planassist/internal/planner"
	"planassist/internal/repository"
)

// DraftResult is the response of a draft generation pass: the proposed
// tree plus its markdown rendering.
type DraftResult struct {
	FileName string        `json:"file_name"`
	Projects *planner.Plan `json:"projects"`
	Response string        `json:"response"`
}

// ReplanResult is the response of a chat-driven replanning pass.
type ReplanResult struct {
	UpdatedJSON *planner.PlanProject `json:"updated_json"`
	Markdown    string               `json:"markdown"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// NewProjectInput is a finalized draft: the tree the user accepted plus
// the conversation and file records that produced it.
type NewProjectInput struct {
	ProjectID uuid.UUID
	Tree      planner.PlanProject
	Chat      []model.ChatHistory
	Files     []model.File
}

type AssistantService struct {
	drafts    *gemini.DraftGenerator
	generator gemini.TextGenerator
	replanner *ReplanService
	projects  *repository.ProjectRepository
	chats     *repository.ChatRepository
	files     *repository.FileRepository
	logger    *zap.Logger
}

func NewAssistantService(
	drafts *gemini.DraftGenerator,
	generator gemini.TextGenerator,
	replanner *ReplanService,
	projects *repository.ProjectRepository,
	chats *repository.ChatRepository,
	files *repository.FileRepository,
	logger *zap.Logger,
) *AssistantService {
	return &AssistantService{
		drafts:    drafts,
		generator: generator,
		replanner: replanner,
		projects:  projects,
		chats:     chats,
		files:     files,
		logger:    logger,
	}
}

// InitProjectID mints a fresh project id for a draft session. Nothing
// is persisted until the draft is finalized.
func (s *AssistantService) InitProjectID() uuid.UUID {
	return uuid.New()
}

// Draft runs the document-to-plan pipeline on an uploaded PDF.
func (s *AssistantService) Draft(ctx context.Context, fileName string, content []byte, title string, deadline time.Time) (*DraftResult, error) {
	plan, err := s.drafts.Generate(ctx, content, title, deadline)
	if err != nil {
		return nil, err
	}
	markdown, err := gemini.PlanMarkdown(ctx, s.generator, plan)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Draft generated",
		zap.String("file_name", fileName),
		zap.Int("projects", len(plan.Projects)))
	return &DraftResult{
		FileName: fileName,
		Projects: plan,
		Response: markdown,
	}, nil
}

// Replan regenerates the stored plan from the project's chat
// transcript. The incoming user message is appended first so the
// scheduler sees the full conversation, and the rendered reply is
// appended after.
func (s *AssistantService) Replan(ctx context.Context, userID, projectID uuid.UUID, message string) (*ReplanResult, error) {
	if message != "" {
		err := s.chats.Append(ctx, &model.ChatHistory{
			UserID:    userID,
			ProjectID: projectID,
			Sender:    model.SenderUser,
			Message:   message,
		})
		if err != nil {
			return nil, err
		}
	}

	history, err := s.chats.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	transcript := make([]planner.ChatMessage, 0, len(history))
	for _, c := range history {
		transcript = append(transcript, planner.ChatMessage{
			Sender:    c.Sender,
			Message:   c.Message,
			Timestamp: c.Timestamp,
		})
	}

	merged, err := s.replanner.ChatReplan(ctx, userID, projectID, transcript)
	if err != nil {
		return nil, err
	}

	markdown, err := gemini.PlanMarkdown(ctx, s.generator, merged)
	if err != nil {
		return nil, err
	}

	err = s.chats.Append(ctx, &model.ChatHistory{
		UserID:    userID,
		ProjectID: projectID,
		Sender:    model.SenderAssistant,
		Message:   markdown,
	})
	if err != nil {
		return nil, err
	}

	return &ReplanResult{
		UpdatedJSON: merged,
		Markdown:    markdown,
		GeneratedAt: time.Now(),
	}, nil
}

// NewProject persists a finalized draft: the accepted tree, the chat
// history of the drafting session, and the uploaded file records.
func (s *AssistantService) NewProject(ctx context.Context, userID uuid.UUID, in NewProjectInput) (*model.Project, error) {
	projectID := in.ProjectID
	if projectID == uuid.Nil {
		projectID = uuid.New()
	}

	p := &model.Project{
		ID:               projectID,
		UserID:           userID,
		Name:             in.Tree.Name,
		Summary:          in.Tree.Summary,
		StartTime:        wireTimePtr(in.Tree.StartTime),
		EndTime:          wireTimePtr(in.Tree.EndTime),
		DueDate:          wireTimePtr(in.Tree.DueDate),
		EstimatedLoading: in.Tree.EstimatedLoading,
	}

	milestones := make([]model.Milestone, 0, len(in.Tree.Milestones))
	tasks := map[string][]model.Task{}
	for _, wm := range in.Tree.Milestones {
		m := model.Milestone{
			ID:               uuid.New(),
			ProjectID:        projectID,
			Name:             wm.Name,
			Summary:          wm.Summary,
			StartTime:        wireTimePtr(wm.StartTime),
			EndTime:          wireTimePtr(wm.EndTime),
			EstimatedLoading: wm.EstimatedLoading,
		}
		milestones = append(milestones, m)
		for _, wt := range wm.Tasks {
			tasks[m.ID.String()] = append(tasks[m.ID.String()], model.Task{
				ID:               uuid.New(),
				MilestoneID:      m.ID,
				Title:            wt.Title,
				Description:      wt.Description,
				DueDate:          wireTimePtr(wt.DueDate),
				EstimatedLoading: wt.EstimatedLoading,
				IsCompleted:      wt.IsCompleted,
			})
		}
	}

	chat := make([]model.ChatHistory, 0, len(in.Chat))
	for _, c := range in.Chat {
		c.ProjectID = projectID
		c.UserID = userID
		chat = append(chat, c)
	}
	files := make([]model.File, 0, len(in.Files))
	for _, f := range in.Files {
		f.ProjectID = projectID
		files = append(files, f)
	}

	if err := s.projects.CreateWithTree(ctx, p, milestones, tasks, chat, files); err != nil {
		return nil, err
	}
	s.logger.Info("Project created from draft",
		zap.String("project_id", projectID.String()),
		zap.Int("milestones", len(milestones)))
	return p, nil
}

// History returns the project's chat log together with its file records.
func (s *AssistantService) History(ctx context.Context, userID, projectID uuid.UUID) ([]model.ChatHistory, []model.File, error) {
	if _, err := s.projects.FindByID(ctx, userID, projectID); err != nil {
		return nil, nil, err
	}
	history, err := s.chats.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	files, err := s.files.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return history, files, nil
}

// ResetHistory clears the project's chat log.
func (s *AssistantService) ResetHistory(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.projects.FindByID(ctx, userID, projectID); err != nil {
		return err
	}
	return s.chats.DeleteByProject(ctx, projectID)
}

func wireTimePtr(s string) *time.Time {
	if t, ok := planner.ParseDate(s); ok {
		return &t
	}
	return nil
}
