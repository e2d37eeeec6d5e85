// Package tasks holds the pipeline's specialist tasks. Each one follows the
// same contract: read from RunState, do its work, and return a patch or a
// suspension request; on failure, return an error and let the scheduler
// record it and move on.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/example/jobhunt-orchestrator/internal/models"
	"github.com/example/jobhunt-orchestrator/internal/orchestrator"
	"github.com/example/jobhunt-orchestrator/internal/providers/llm"
	"github.com/example/jobhunt-orchestrator/internal/task"
)

// Task names.
const (
	NameResumeAnalyst = "resume_analyst"
	NameJobResearcher = "job_researcher"
	NameCVCreator     = "cv_creator"
	NameJobMatcher    = "job_matcher"
)

// Planner produces the execution plan from the free-text request. When
// approval is required it suspends the run with the drafted plan for a human
// decision before any specialist runs.
type Planner struct {
	Client           llm.Client
	ApprovalRequired bool
}

func (p *Planner) Name() string { return orchestrator.PlannerTask }

type planPayload struct {
	PrimaryGoal    string   `json:"primary_goal"`
	AgentsNeeded   []string `json:"agents_needed"`
	ExecutionOrder []string `json:"execution_order"`
	NextTask       string   `json:"next_agent"`
	Reasoning      string   `json:"reasoning"`
}

func (p *Planner) Run(ctx context.Context, state *models.RunState) (task.Outcome, error) {
	raw, err := p.Client.GenerateText(ctx, planPrompt(state))
	if err != nil || strings.TrimSpace(raw) == "" {
		if err != nil {
			log.Printf("planner: generate error on %s: %v", state.ThreadID, err)
		}
		return task.Patched(p.fallback(state)), nil
	}

	var payload planPayload
	if jerr := json.Unmarshal([]byte(normalizeJSONText(raw)), &payload); jerr != nil || len(payload.ExecutionOrder) == 0 {
		return task.Patched(p.fallback(state)), nil
	}

	plan := &models.ExecutionPlan{
		PrimaryGoal:    payload.PrimaryGoal,
		ExecutionOrder: sanitizeOrder(payload.ExecutionOrder),
		NextTask:       payload.NextTask,
		Reasoning:      payload.Reasoning,
	}
	if len(plan.ExecutionOrder) == 0 {
		return task.Patched(p.fallback(state)), nil
	}

	patch := models.Patch{
		Plan:            plan,
		AppendCompleted: []string{p.Name()},
		Messages: []models.Message{{
			From: p.Name(),
			Content: fmt.Sprintf("Coordination plan created. Goal: %s. Agents: %s",
				plan.PrimaryGoal, strings.Join(plan.ExecutionOrder, " -> ")),
			At: time.Now(),
		}},
	}

	if p.ApprovalRequired {
		return task.Suspended(models.PendingApproval{
			Kind: models.ApprovalKindPlan,
			Summary: fmt.Sprintf("I'll %s.\n\nStrategy: %s\n\nAgents needed: %s",
				goalOr(plan.PrimaryGoal), reasoningOr(plan.Reasoning),
				strings.Join(plan.ExecutionOrder, " -> ")),
			Payload: map[string]any{"plan": plan},
		}, &patch), nil
	}
	return task.Patched(patch), nil
}

// fallback builds a deterministic keyword-based plan when the generated plan
// cannot be parsed. It never asks for approval; there is nothing novel to
// approve in a rule-derived plan.
func (p *Planner) fallback(state *models.RunState) models.Patch {
	req := strings.ToLower(state.Request)
	resumeProvided := state.ResumePath != ""

	var order []string
	switch {
	case strings.Contains(req, "match") || strings.Contains(req, "compare"):
		order = []string{NameResumeAnalyst, NameJobResearcher, NameJobMatcher}
	case resumeProvided && (strings.Contains(req, "cv") || strings.Contains(req, "create")):
		order = []string{NameResumeAnalyst, NameCVCreator}
	case resumeProvided && (strings.Contains(req, "analyze") || strings.Contains(req, "resume")):
		order = []string{NameResumeAnalyst}
	default:
		order = []string{NameJobResearcher}
	}
	if !resumeProvided {
		order = dropName(order, NameResumeAnalyst)
	}

	plan := &models.ExecutionPlan{
		PrimaryGoal:    "best-effort help with the request",
		ExecutionOrder: order,
		Reasoning:      "keyword fallback (planner output unparseable)",
	}
	return models.Patch{
		Plan:            plan,
		AppendCompleted: []string{p.Name()},
		Messages: []models.Message{{
			From:    p.Name(),
			Content: "Plan generation degraded to keyword routing: " + strings.Join(order, " -> "),
			At:      time.Now(),
		}},
	}
}

func planPrompt(state *models.RunState) string {
	resume := "None"
	if state.ResumePath != "" {
		resume = state.ResumePath
	}
	var b strings.Builder
	fmt.Fprintf(&b, `You are the coordinator of a multi-agent job hunting system.

AVAILABLE SPECIALIST AGENTS:
- resume_analyst: analyzes resumes for strengths, weaknesses, and improvements (REQUIRED for most other agents)
- job_researcher: searches and analyzes job markets and opportunities
- cv_creator: generates professional, tailored CVs (requires resume_analyst)
- job_matcher: compares resumes against specific job descriptions (requires resume_analyst and job_researcher)

DEPENDENCY RULES:
- Job research without a resume: only job_researcher
- Job research with a resume: resume_analyst first, then job_researcher
- CV creation: resume_analyst first, then cv_creator
- Job matching: resume_analyst, then job_researcher, then job_matcher
- Market research only: job_researcher (no dependencies)

USER REQUEST: %s
RESUME PROVIDED: %s
`, state.Request, resume)
	if state.PlanRejected && state.FeedbackText != "" {
		fmt.Fprintf(&b, "\nThe previous plan was rejected by the user with this feedback, revise accordingly:\n%s\n", state.FeedbackText)
	}
	b.WriteString(`
Respond with ONLY a JSON object, no prose, no code fences:
{"primary_goal": "...", "agents_needed": ["..."], "execution_order": ["..."], "next_agent": "...", "reasoning": "..."}`)
	return b.String()
}

// sanitizeOrder keeps only known specialists, deduplicated, in given order.
func sanitizeOrder(names []string) []string {
	known := map[string]struct{}{
		NameResumeAnalyst: {}, NameJobResearcher: {}, NameCVCreator: {}, NameJobMatcher: {},
	}
	seen := map[string]struct{}{}
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(strings.ToLower(n))
		if _, ok := known[n]; !ok {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func dropName(names []string, drop string) []string {
	var out []string
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}

func goalOr(goal string) string {
	if goal == "" {
		return "help with your request"
	}
	return goal
}

func reasoningOr(r string) string {
	if r == "" {
		return "execute the planned approach"
	}
	return r
}
