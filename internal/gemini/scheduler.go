package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"planassist/internal/planner"
)

// Scheduler implements planner.Scheduler by delegating the scheduling
// decision to Gemini. The output is whatever tree the model proposes;
// validation and reconciliation happen in the planner, not here.
type Scheduler struct {
	gen    TextGenerator
	logger *zap.Logger
}

func NewScheduler(gen TextGenerator, logger *zap.Logger) *Scheduler {
	return &Scheduler{gen: gen, logger: logger}
}

// schedulingTemperature keeps replies close to deterministic without
// pinning them entirely.
const schedulingTemperature = 0.2

func (s *Scheduler) ProposeSchedule(ctx context.Context, current *planner.Plan, m planner.Mutation) (*planner.Plan, error) {
	projectJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize project tree: %w", err)
	}

	var prompt, op string
	switch m.Kind {
	case planner.MutationInsertTask:
		taskJSON, err := json.MarshalIndent(m.Task, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize new task: %w", err)
		}
		prompt = InsertTaskPrompt(string(projectJSON), string(taskJSON))
		op = "reschedule"

	case planner.MutationUpdateTask:
		taskJSON, err := json.MarshalIndent(m.Task, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to serialize updated task: %w", err)
		}
		prompt = UpdateTaskPrompt(string(projectJSON), string(taskJSON))
		op = "reschedule"

	case planner.MutationChat:
		prompt = ChatReplanPrompt(string(projectJSON), Transcript(m.Chat))
		op = "replan"

	default:
		return nil, fmt.Errorf("unknown mutation kind %q", m.Kind)
	}

	s.logger.Debug("Requesting schedule proposal",
		zap.String("mutation", string(m.Kind)),
		zap.Int("prompt_length", len(prompt)),
	)

	raw, err := s.gen.Generate(ctx, prompt, schedulingTemperature)
	if err != nil {
		return nil, fmt.Errorf("gemini %s: %w", op, err)
	}

	plan, err := decodePlan(op, raw)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			s.logger.Error("Model reply was not valid JSON",
				zap.String("operation", op),
				zap.String("raw_response", pe.Raw),
			)
		}
		return nil, err
	}

	return plan, nil
}

// Transcript flattens a chat history into the SENDER: message form the
// replan prompt expects.
func Transcript(chat []planner.ChatMessage) string {
	lines := make([]string, len(chat))
	for i, item := range chat {
		lines[i] = fmt.Sprintf("%s: %s", strings.ToUpper(item.Sender), item.Message)
	}
	return strings.Join(lines, "\n")
}

// PlanMarkdown renders a plan tree as markdown through a formatting
// call to the model.
func PlanMarkdown(ctx context.Context, gen TextGenerator, v any) (string, error) {
	jsonStr, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize plan: %w", err)
	}

	text, err := gen.Generate(ctx, MarkdownPrompt(string(jsonStr)), 0)
	if err != nil {
		return "", fmt.Errorf("gemini markdown: %w", err)
	}
	return text, nil
}
