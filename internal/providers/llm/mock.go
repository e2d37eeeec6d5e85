package llm

import (
	"context"
	"strings"
)

// MockClient is used when no real provider is configured. It answers planning
// prompts with a fixed single-task plan and everything else with a canned
// reply, which keeps local development off the network.
type MockClient struct{}

func (m *MockClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	p := strings.ToLower(prompt)
	if strings.Contains(p, "execution_order") {
		return `{"primary_goal":"research the job market","agents_needed":["job_researcher"],"execution_order":["job_researcher"],"next_agent":"job_researcher","reasoning":"mock plan"}`, nil
	}
	return "mock response", nil
}
