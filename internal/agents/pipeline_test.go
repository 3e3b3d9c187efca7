package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

type fakeLLM struct {
	// responses are returned in call order.
	responses []string
	calls     []struct{ system, user string }
	jsonOut   string
	err       error
}

func (f *fakeLLM) GenerateText(_ context.Context, system, user string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls = append(f.calls, struct{ system, user string }{system, user})
	if len(f.responses) == 0 {
		return "", fmt.Errorf("fake out of responses")
	}
	out := f.responses[0]
	f.responses = f.responses[1:]
	return out, nil
}

func (f *fakeLLM) GenerateJSON(_ context.Context, system, user string, _ *genai.Schema, out any) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, struct{ system, user string }{system, user})
	return json.Unmarshal([]byte(f.jsonOut), out)
}

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	return log
}

func TestPipelineThreadsTranscriptThroughStages(t *testing.T) {
	fake := &fakeLLM{responses: []string{"THE-OUTLINE", "THE-DRAFT", "  THE-FINAL  "}}
	p := NewContentPipeline(testLog(t), fake)

	out, err := p.Generate(context.Background(), ContentContext{
		Course:  "Go Basics",
		Subject: "Concurrency",
		Chapter: "Channels",
		Topic:   "Select",
	})
	require.NoError(t, err)
	assert.Equal(t, "THE-FINAL", out)

	require.Len(t, fake.calls, 3)
	assert.Equal(t, outlineSystem, fake.calls[0].system)
	assert.Contains(t, fake.calls[0].user, "Topic: Select")

	// The writer sees the outline, the reviewer sees the draft.
	assert.Equal(t, writerSystem, fake.calls[1].system)
	assert.Contains(t, fake.calls[1].user, "THE-OUTLINE")
	assert.Equal(t, reviewerSystem, fake.calls[2].system)
	assert.Contains(t, fake.calls[2].user, "THE-DRAFT")
	assert.NotContains(t, fake.calls[2].user, "THE-OUTLINE")
}

func TestPipelineAbortsOnStageError(t *testing.T) {
	fake := &fakeLLM{err: fmt.Errorf("model offline")}
	p := NewContentPipeline(testLog(t), fake)

	_, err := p.Generate(context.Background(), ContentContext{Topic: "Select"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outline stage")
}

func TestCurriculumAgentsDecodeStructuredOutput(t *testing.T) {
	fake := &fakeLLM{jsonOut: `{"name":"Go Basics","description":"A course."}`}
	a := NewCurriculumAgents(testLog(t), fake)

	idea, err := a.GenerateCourse(context.Background(), "teach me go")
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", idea.Name)
	assert.Equal(t, "A course.", idea.Description)

	fake.jsonOut = `{"names":["Syntax","Concurrency"]}`
	names, err := a.GenerateSubjects(context.Background(), "Go Basics", "A course.")
	require.NoError(t, err)
	assert.Equal(t, []string{"Syntax", "Concurrency"}, names)
}
