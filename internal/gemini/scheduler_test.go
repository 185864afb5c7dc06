package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"planassist/internal/planner"
)

type cannedGenerator struct {
	lastPrompt string
	reply      string
	err        error
}

func (g *cannedGenerator) Generate(_ context.Context, prompt string, _ float32) (string, error) {
	g.lastPrompt = prompt
	return g.reply, g.err
}

func currentTree() *planner.Plan {
	return &planner.Plan{Projects: []planner.PlanProject{{
		Name: "Thesis",
		Milestones: []planner.PlanMilestone{{
			ID:   "ms-1",
			Name: "Literature review",
		}},
	}}}
}

func TestProposeScheduleInsertTask(t *testing.T) {
	gen := &cannedGenerator{reply: `{"projects":[{"name":"Thesis","milestones":[]}]}`}
	s := NewScheduler(gen, zap.NewNop())

	plan, err := s.ProposeSchedule(context.Background(), currentTree(), planner.Mutation{
		Kind: planner.MutationInsertTask,
		Task: &planner.TaskChange{MilestoneID: "ms-1", Title: "Proofread chapter", DueDate: "2026-02-10"},
	})
	require.NoError(t, err)
	require.Len(t, plan.Projects, 1)

	assert.Contains(t, gen.lastPrompt, "insert a new task")
	assert.Contains(t, gen.lastPrompt, "Proofread chapter")
	assert.Contains(t, gen.lastPrompt, "Literature review")
}

func TestProposeScheduleUpdateTask(t *testing.T) {
	gen := &cannedGenerator{reply: `{"projects":[{"name":"Thesis"}]}`}
	s := NewScheduler(gen, zap.NewNop())

	_, err := s.ProposeSchedule(context.Background(), currentTree(), planner.Mutation{
		Kind: planner.MutationUpdateTask,
		Task: &planner.TaskChange{ID: "t-1", MilestoneID: "ms-1", Title: "Collect papers"},
	})
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, "has been updated")
}

func TestProposeScheduleChat(t *testing.T) {
	gen := &cannedGenerator{reply: `{"projects":[{"name":"Thesis"}]}`}
	s := NewScheduler(gen, zap.NewNop())

	_, err := s.ProposeSchedule(context.Background(), currentTree(), planner.Mutation{
		Kind: planner.MutationChat,
		Chat: []planner.ChatMessage{
			{Sender: "user", Message: "Please add a buffer week", Timestamp: time.Now()},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, gen.lastPrompt, "USER: Please add a buffer week")
}

func TestProposeScheduleParseError(t *testing.T) {
	gen := &cannedGenerator{reply: "definitely not json"}
	s := NewScheduler(gen, zap.NewNop())

	_, err := s.ProposeSchedule(context.Background(), currentTree(), planner.Mutation{
		Kind: planner.MutationChat,
	})
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "replan", pe.Op)
	assert.Contains(t, err.Error(), "gemini replan")
}

func TestProposeScheduleGeneratorError(t *testing.T) {
	gen := &cannedGenerator{err: errors.New("service unavailable")}
	s := NewScheduler(gen, zap.NewNop())

	_, err := s.ProposeSchedule(context.Background(), currentTree(), planner.Mutation{
		Kind: planner.MutationInsertTask,
		Task: &planner.TaskChange{Title: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini reschedule")
}

func TestTranscript(t *testing.T) {
	got := Transcript([]planner.ChatMessage{
		{Sender: "user", Message: "hello"},
		{Sender: "assistant", Message: "hi"},
	})
	assert.Equal(t, "USER: hello\nASSISTANT: hi", got)
}
