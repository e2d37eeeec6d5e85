package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/jobhunt-orchestrator/internal/jobsearch"
	"github.com/example/jobhunt-orchestrator/internal/models"
	"github.com/example/jobhunt-orchestrator/internal/orchestrator"
	"github.com/example/jobhunt-orchestrator/internal/providers/llm"
	"github.com/example/jobhunt-orchestrator/internal/task"
)

// Searcher is the slice of jobsearch.Client the researcher needs.
type Searcher interface {
	Search(ctx context.Context, role string, max int) ([]models.JobListing, error)
}

// JobResearcher researches the job market for a target role. The role comes
// from the resume analysis when available, from a clarification decision, or
// from the request text; an unclear request suspends the run for a human to
// name the role.
type JobResearcher struct {
	Client  llm.Client
	Search  Searcher
	MaxJobs int
}

func (r *JobResearcher) Name() string { return NameJobResearcher }

func (r *JobResearcher) Run(ctx context.Context, state *models.RunState) (task.Outcome, error) {
	// A resume is attached but unanalyzed: research quality depends on the
	// analysis, so repair the plan and yield without completing.
	if state.ResumePath != "" && state.ResumeAnalysis == nil {
		if err := orchestrator.EnsureBefore(state.Plan, r.Name(), NameResumeAnalyst); err != nil {
			return task.Outcome{}, models.Categorized(models.CategoryPlanRepair, err)
		}
		return task.Patched(models.Patch{
			Plan: state.Plan,
			Messages: []models.Message{{
				From:    r.Name(),
				Content: "Resume analysis required first for optimal job market research. Requesting analysis...",
				At:      time.Now(),
			}},
		}), nil
	}

	role, outcome, err := r.pickRole(ctx, state)
	if err != nil {
		return task.Outcome{}, err
	}
	if outcome != nil {
		return *outcome, nil
	}

	max := r.MaxJobs
	if max <= 0 {
		max = 15
	}
	listings, err := r.Search.Search(ctx, role, max)
	if err != nil {
		return task.Outcome{}, fmt.Errorf("research failed: %w", err)
	}
	if len(listings) == 0 {
		return task.Outcome{}, fmt.Errorf("no jobs found for %s; try a different role", role)
	}

	mode := "autonomous"
	if state.ResumeAnalysis != nil {
		mode = "resume_based"
	}
	market := jobsearch.BuildMarketData(role, listings, mode)
	if len(listings) > 10 {
		listings = listings[:10]
	}

	return task.Patched(models.Patch{
		MarketData:      market,
		JobListings:     listings,
		AppendCompleted: []string{r.Name()},
		Messages: []models.Message{{
			From: r.Name(),
			Content: fmt.Sprintf("Job market research complete for %q: %d positions, demand %s, %.1f%% remote.",
				role, market.TotalJobsFound, market.Insights.DemandLevel, market.Insights.RemotePercentage),
			At: time.Now(),
		}},
	}), nil
}

// pickRole resolves the role to research. It returns a non-nil outcome when
// the run must suspend for clarification.
func (r *JobResearcher) pickRole(ctx context.Context, state *models.RunState) (string, *task.Outcome, error) {
	if role := strings.TrimSpace(state.ClarifiedRole); role != "" {
		return strings.ToLower(role), nil, nil
	}
	if a := state.ResumeAnalysis; a != nil && len(a.PossibleJobs) > 0 {
		return strings.ToLower(a.PossibleJobs[0]), nil, nil
	}
	if state.ResumePath != "" {
		return "general", nil, nil
	}

	extracted, err := r.Client.GenerateText(ctx, roleExtractionPrompt(state.Request))
	if err != nil {
		return "general", nil, nil
	}
	role := strings.ToLower(strings.TrimSpace(extracted))
	if role == "unclear" || len(role) < 3 {
		out := task.Suspended(models.PendingApproval{
			Kind: models.ApprovalKindClarification,
			Summary: fmt.Sprintf("I need help understanding what specific job role you're interested in.\n\nYour request: %q\n\nPlease clarify the job title to focus on (e.g. 'software engineer', 'data scientist').",
				state.Request),
			Payload: map[string]any{
				"user_request":   state.Request,
				"extracted_role": extracted,
			},
		}, nil)
		return "", &out, nil
	}
	return role, nil, nil
}

func roleExtractionPrompt(request string) string {
	return fmt.Sprintf(`Extract the specific job role from this user request. If no role is named, infer one from what they are asking about; if they seek trends in an industry, assume they work in it.

USER REQUEST: %s

Examples of good responses: "software engineer", "data scientist", "marketing manager".
If you cannot infer a specific role, return "UNCLEAR".
Return only the job role name or "UNCLEAR".`, request)
}
