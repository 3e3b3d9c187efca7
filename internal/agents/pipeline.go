package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursewagon/coursewagon-backend/internal/llm"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

// ContentContext names the position of a topic inside the hierarchy; the
// pipeline writes content for exactly one topic.
type ContentContext struct {
	Course  string
	Subject string
	Chapter string
	Topic   string
}

func (c ContentContext) header() string {
	return fmt.Sprintf("Course: %s\nSubject: %s\nChapter: %s\nTopic: %s", c.Course, c.Subject, c.Chapter, c.Topic)
}

// ContentPipeline is the fixed three-stage authoring chain: outline, writer,
// reviewer. The stages run sequentially over one evolving transcript; any
// stage error aborts the whole run.
type ContentPipeline struct {
	log    *logger.Logger
	client llm.Client
}

func NewContentPipeline(log *logger.Logger, client llm.Client) *ContentPipeline {
	return &ContentPipeline{log: log.With("service", "ContentPipeline"), client: client}
}

func (p *ContentPipeline) Generate(ctx context.Context, cc ContentContext) (string, error) {
	header := cc.header()

	outline, err := p.client.GenerateText(ctx, outlineSystem, header)
	if err != nil {
		return "", fmt.Errorf("outline stage: %w", err)
	}
	p.log.Debug("Outline stage done", "topic", cc.Topic, "outline_len", len(outline))

	draft, err := p.client.GenerateText(ctx, writerSystem, header+"\n\nOutline:\n"+outline)
	if err != nil {
		return "", fmt.Errorf("writer stage: %w", err)
	}
	p.log.Debug("Writer stage done", "topic", cc.Topic, "draft_len", len(draft))

	final, err := p.client.GenerateText(ctx, reviewerSystem, header+"\n\nDraft:\n"+draft)
	if err != nil {
		return "", fmt.Errorf("reviewer stage: %w", err)
	}
	p.log.Debug("Reviewer stage done", "topic", cc.Topic, "final_len", len(final))

	return strings.TrimSpace(final), nil
}
