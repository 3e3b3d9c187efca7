package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursewagon/coursewagon-backend/internal/agents"
	"github.com/coursewagon/coursewagon-backend/internal/apierr"
)

type fakePipeline struct {
	markdown string
	err      error
	lastCC   agents.ContentContext
}

func (f *fakePipeline) Generate(_ context.Context, cc agents.ContentContext) (string, error) {
	f.lastCC = cc
	return f.markdown, f.err
}

func newTopicService(e *testEnv, p ContentGenerator) TopicService {
	return NewTopicService(e.db, e.log, e.courseRepo, e.subjectRepo, e.chapterRepo, e.topicRepo, e.contentRepo, p, e.cache)
}

func TestGenerateContentUpsertsAndFlipsFlag(t *testing.T) {
	e := newTestEnv(t)
	pipe := &fakePipeline{markdown: "# Select\n\nBody."}
	svc := newTopicService(e, pipe)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	topics := e.createTopicTree(t, course.ID, 1)
	topic := topics[0]

	content, err := svc.GenerateContent(ctx, owner.ID, false, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, "# Select\n\nBody.", content.Markdown)

	// Prompt context carries the full lineage.
	assert.Equal(t, "Go Basics", pipe.lastCC.Course)
	assert.Equal(t, "Subject", pipe.lastCC.Subject)
	assert.Equal(t, "Chapter", pipe.lastCC.Chapter)

	// The stored row records what the pipeline was asked for.
	var meta map[string]string
	require.NoError(t, json.Unmarshal(content.GenerationMetadata, &meta))
	assert.Equal(t, "Go Basics", meta["course"])

	reloaded, err := e.topicRepo.GetByID(ctx, nil, topic.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.HasContent)

	// Regeneration overwrites in place; still one row per topic.
	pipe.markdown = "# Select v2"
	_, err = svc.GenerateContent(ctx, owner.ID, false, topic.ID)
	require.NoError(t, err)
	stored, err := svc.GetContent(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, "# Select v2", stored.Markdown)
}

func TestGenerateContentFailurePropagates(t *testing.T) {
	e := newTestEnv(t)
	pipe := &fakePipeline{err: fmt.Errorf("reviewer stage: model offline")}
	svc := newTopicService(e, pipe)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	topics := e.createTopicTree(t, course.ID, 1)

	_, err := svc.GenerateContent(ctx, owner.ID, false, topics[0].ID)
	require.Error(t, err)

	_, err = svc.GetContent(ctx, topics[0].ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
}

func TestDeleteContentClearsFlag(t *testing.T) {
	e := newTestEnv(t)
	pipe := &fakePipeline{markdown: "body"}
	svc := newTopicService(e, pipe)
	ctx := context.Background()

	owner := e.createUser(t, "owner@example.com")
	course := e.createCourse(t, owner, "Go Basics")
	topics := e.createTopicTree(t, course.ID, 1)

	_, err := svc.GenerateContent(ctx, owner.ID, false, topics[0].ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteContent(ctx, owner.ID, false, topics[0].ID))

	_, err = svc.GetContent(ctx, topics[0].ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	reloaded, err := e.topicRepo.GetByID(ctx, nil, topics[0].ID)
	require.NoError(t, err)
	assert.False(t, reloaded.HasContent)
}
