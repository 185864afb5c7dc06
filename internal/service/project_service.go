package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"planassist/internal/model"
	"planassist/internal/planner"
	"planassist/internal/repository"
)

const projectListCacheTTL = 30 * time.Second

// ProjectSummary is one row of the project list: header fields plus the
// progress of the most-recently-ending milestone.
type ProjectSummary struct {
	ProjectID        string  `json:"project_id"`
	ProjectName      string  `json:"project_name"`
	DueDate          string  `json:"due_date"`
	Progress         float64 `json:"progress"`
	CurrentMilestone string  `json:"current_milestone"`
}

// ProjectDetail is the project header plus its milestone summaries.
type ProjectDetail struct {
	Project    *model.Project    `json:"project"`
	Milestones []model.Milestone `json:"milestones"`
}

// MilestoneDetail is the milestone header plus its task list.
type MilestoneDetail struct {
	Milestone *model.Milestone `json:"milestone"`
	Tasks     []model.Task     `json:"tasks"`
	Progress  float64          `json:"progress"`
}

type ProjectService struct {
	projects   *repository.ProjectRepository
	milestones *repository.MilestoneRepository
	tasks      *repository.TaskRepository
	cache      *redis.Client
	logger     *zap.Logger
}

func NewProjectService(
	projects *repository.ProjectRepository,
	milestones *repository.MilestoneRepository,
	tasks *repository.TaskRepository,
	cache *redis.Client,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		milestones: milestones,
		tasks:      tasks,
		cache:      cache,
		logger:     logger,
	}
}

func projectListCacheKey(userID uuid.UUID) string {
	return "projects:" + userID.String()
}

// List returns the caller's projects with per-project progress. The
// result is cached briefly in Redis; cache errors are logged and the
// list is served from the database.
func (s *ProjectService) List(ctx context.Context, userID uuid.UUID) ([]ProjectSummary, error) {
	key := projectListCacheKey(userID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			var summaries []ProjectSummary
			if err := json.Unmarshal([]byte(cached), &summaries); err == nil {
				return summaries, nil
			}
		} else if err != redis.Nil {
			s.logger.Debug("Project list cache read failed", zap.Error(err))
		}
	}

	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summary := ProjectSummary{
			ProjectID:   p.ID.String(),
			ProjectName: p.Name,
		}
		if p.DueDate != nil {
			summary.DueDate = p.DueDate.Format("2006-01-02")
		}
		latest, err := s.milestones.FindLatest(ctx, p.ID)
		if err == nil {
			summary.CurrentMilestone = latest.Name
			tasks, err := s.tasks.ListByMilestone(ctx, latest.ID)
			if err != nil {
				return nil, err
			}
			summary.Progress = planner.TaskProgress(tasks)
		}
		summaries = append(summaries, summary)
	}

	if s.cache != nil {
		if payload, err := json.Marshal(summaries); err == nil {
			if err := s.cache.Set(ctx, key, payload, projectListCacheTTL).Err(); err != nil {
				s.logger.Debug("Project list cache write failed", zap.Error(err))
			}
		}
	}
	return summaries, nil
}

// InvalidateList drops the cached project list after any write that
// changes what the list would show.
func (s *ProjectService) InvalidateList(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, projectListCacheKey(userID)).Err(); err != nil {
		s.logger.Debug("Project list cache invalidation failed", zap.Error(err))
	}
}

func (s *ProjectService) Detail(ctx context.Context, userID, projectID uuid.UUID) (*ProjectDetail, error) {
	p, err := s.projects.FindByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	milestones, err := s.milestones.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectDetail{Project: p, Milestones: milestones}, nil
}

func (s *ProjectService) MilestoneDetail(ctx context.Context, userID, projectID, milestoneID uuid.UUID) (*MilestoneDetail, error) {
	m, err := s.milestones.FindByID(ctx, userID, projectID, milestoneID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByMilestone(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	return &MilestoneDetail{
		Milestone: m,
		Tasks:     tasks,
		Progress:  planner.TaskProgress(tasks),
	}, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, userID uuid.UUID, p *model.Project) error {
	// Ownership check before the write; UpdateFields itself is keyed on
	// both ids so a stale check cannot widen access.
	if _, err := s.projects.FindByID(ctx, userID, p.ID); err != nil {
		return err
	}
	if err := s.projects.UpdateFields(ctx, p); err != nil {
		return err
	}
	s.InvalidateList(ctx, userID)
	return nil
}

func (s *ProjectService) UpdateMilestone(ctx context.Context, userID uuid.UUID, m *model.Milestone) error {
	if _, err := s.milestones.FindByID(ctx, userID, m.ProjectID, m.ID); err != nil {
		return err
	}
	if err := s.milestones.UpdateFields(ctx, m); err != nil {
		return err
	}
	s.InvalidateList(ctx, userID)
	return nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	if err := s.projects.Delete(ctx, userID, projectID); err != nil {
		return err
	}
	s.InvalidateList(ctx, userID)
	return nil
}
