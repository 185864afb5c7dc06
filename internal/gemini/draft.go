package gemini

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"planassist/internal/document"
	"planassist/internal/planner"
	"planassist/pkg/metrics"
)

// topKParagraphs is how many retrieved paragraphs feed the refinement
// pass.
const topKParagraphs = 15

// DraftGenerator produces an initial project plan from an uploaded
// document: extract paragraphs, retrieve the most relevant ones, have
// the model select the best of those verbatim, then ask for the
// structured tree.
type DraftGenerator struct {
	gen       TextGenerator
	retriever *Retriever
	logger    *zap.Logger
}

func NewDraftGenerator(gen TextGenerator, retriever *Retriever, logger *zap.Logger) *DraftGenerator {
	return &DraftGenerator{
		gen:       gen,
		retriever: retriever,
		logger:    logger,
	}
}

// Generate runs the full draft pipeline over raw PDF bytes.
func (g *DraftGenerator) Generate(ctx context.Context, content []byte, title string, deadline time.Time) (*planner.Plan, error) {
	plan, err := g.generate(ctx, content, title, deadline)

	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.IncrementDraftGeneration(status)

	return plan, err
}

func (g *DraftGenerator) generate(ctx context.Context, content []byte, title string, deadline time.Time) (*planner.Plan, error) {
	paragraphs, err := document.ExtractParagraphs(content)
	if err != nil {
		return nil, err
	}
	if len(paragraphs) == 0 {
		return nil, fmt.Errorf("document contains no extractable text")
	}

	g.logger.Debug("Extracted document paragraphs",
		zap.String("title", title),
		zap.Int("paragraphs", len(paragraphs)),
	)

	topChunks, err := g.retriever.TopK(ctx, RetrievalQuery, paragraphs, topKParagraphs)
	if err != nil {
		return nil, err
	}

	refined, err := g.gen.Generate(ctx, RefineChunksPrompt(topChunks), 0)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02 15:04:05")
	raw, err := g.gen.Generate(ctx, DraftPrompt(refined, title, deadline.Format("2006-01-02"), today), 0)
	if err != nil {
		return nil, err
	}

	plan, err := decodePlan("draft", raw)
	if err != nil {
		return nil, err
	}

	g.logger.Info("Project draft generated",
		zap.String("title", title),
		zap.Int("projects", len(plan.Projects)),
	)
	return plan, nil
}
