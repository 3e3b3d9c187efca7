// Package agents holds the single-shot curriculum generators and the
// three-stage content pipeline. Each agent is a configured prompt plus an
// expected output shape, invoked once per call with no memory between calls.
package agents

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/coursewagon/coursewagon-backend/internal/llm"
	"github.com/coursewagon/coursewagon-backend/internal/logger"
)

type CourseIdea struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CurriculumAgents struct {
	log    *logger.Logger
	client llm.Client
}

func NewCurriculumAgents(log *logger.Logger, client llm.Client) *CurriculumAgents {
	return &CurriculumAgents{log: log.With("service", "CurriculumAgents"), client: client}
}

var courseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString},
		"description": {Type: genai.TypeString},
	},
	Required: []string{"name", "description"},
}

func nameListSchema(minItems, maxItems int64) *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"names": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				MinItems: genai.Ptr(minItems),
				MaxItems: genai.Ptr(maxItems),
			},
		},
		Required: []string{"names"},
	}
}

type nameList struct {
	Names []string `json:"names"`
}

// GenerateCourse turns a free-text seed into a course name and description.
func (a *CurriculumAgents) GenerateCourse(ctx context.Context, seed string) (*CourseIdea, error) {
	var idea CourseIdea
	if err := a.client.GenerateJSON(ctx, courseSystem, fmt.Sprintf(courseUser, seed), courseSchema, &idea); err != nil {
		return nil, err
	}
	return &idea, nil
}

// GenerateSubjects returns at most 5 subject names for a course.
func (a *CurriculumAgents) GenerateSubjects(ctx context.Context, courseName, courseDescription string) ([]string, error) {
	var out nameList
	prompt := fmt.Sprintf(subjectUser, courseName, courseDescription)
	if err := a.client.GenerateJSON(ctx, subjectSystem, prompt, nameListSchema(1, 5), &out); err != nil {
		return nil, err
	}
	return out.Names, nil
}

// GenerateChapters returns 8 to 15 chapter names for a subject.
func (a *CurriculumAgents) GenerateChapters(ctx context.Context, courseName, subjectName string) ([]string, error) {
	var out nameList
	prompt := fmt.Sprintf(chapterUser, courseName, subjectName)
	if err := a.client.GenerateJSON(ctx, chapterSystem, prompt, nameListSchema(8, 15), &out); err != nil {
		return nil, err
	}
	return out.Names, nil
}

// GenerateTopics returns 5 to 10 topic names for a chapter.
func (a *CurriculumAgents) GenerateTopics(ctx context.Context, courseName, subjectName, chapterName string) ([]string, error) {
	var out nameList
	prompt := fmt.Sprintf(topicUser, courseName, subjectName, chapterName)
	if err := a.client.GenerateJSON(ctx, topicSystem, prompt, nameListSchema(5, 10), &out); err != nil {
		return nil, err
	}
	return out.Names, nil
}
