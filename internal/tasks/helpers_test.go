package tasks

import (
	"context"
	"time"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

// fakeLLM replays scripted responses and records every prompt it saw.
type fakeLLM struct {
	replies []string
	err     error
	prompts []string
}

func (f *fakeLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	if len(f.replies) == 0 {
		return "", nil
	}
	r := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return r, nil
}

func testState(request, resumePath string) *models.RunState {
	return models.NewRunState("t-test", request, resumePath, time.Now())
}
