package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/jobhunt-orchestrator/internal/models"
	"github.com/example/jobhunt-orchestrator/internal/orchestrator"
	"github.com/example/jobhunt-orchestrator/internal/providers/llm"
	"github.com/example/jobhunt-orchestrator/internal/task"
)

// JobMatcher scores the resume against the researched listings and picks the
// best fits. It depends on both the analyst and the researcher and repairs
// the plan when either is missing.
type JobMatcher struct {
	Client llm.Client
	// MaxListings bounds how many listings get an LLM fit analysis.
	MaxListings int
}

func (m *JobMatcher) Name() string { return NameJobMatcher }

func (m *JobMatcher) Run(ctx context.Context, state *models.RunState) (task.Outcome, error) {
	var missing []string
	if state.ResumeContent == "" && state.ResumePath != "" {
		missing = append(missing, NameResumeAnalyst)
	}
	if len(state.JobListings) == 0 {
		missing = append(missing, NameJobResearcher)
	}
	if len(missing) > 0 {
		for i := len(missing) - 1; i >= 0; i-- {
			if err := orchestrator.EnsureBefore(state.Plan, m.Name(), missing[i]); err != nil {
				return task.Outcome{}, models.Categorized(models.CategoryPlanRepair, err)
			}
		}
		return task.Patched(models.Patch{
			Plan: state.Plan,
			Messages: []models.Message{{
				From:    m.Name(),
				Content: fmt.Sprintf("Requesting %s first to enable job compatibility analysis...", strings.Join(missing, " and ")),
				At:      time.Now(),
			}},
		}), nil
	}
	if state.ResumeContent == "" {
		return task.Outcome{}, fmt.Errorf("missing required data for job matching analysis")
	}

	max := m.MaxListings
	if max <= 0 {
		max = 3
	}
	top := state.JobListings
	if len(top) > max {
		top = top[:max]
	}

	var matches []models.JobMatch
	for _, job := range top {
		raw, err := m.Client.GenerateText(ctx, matchPrompt(state.ResumeContent, job))
		if err != nil {
			continue
		}
		var match models.JobMatch
		if err := json.Unmarshal([]byte(normalizeJSONText(raw)), &match); err != nil {
			continue
		}
		match.JobTitle = job.Title
		match.Company = job.Company
		matches = append(matches, match)
	}
	if len(matches) == 0 {
		return task.Outcome{}, fmt.Errorf("failed to analyze job compatibility")
	}

	results := buildComparison(matches)
	return task.Patched(models.Patch{
		ComparisonResults: results,
		AppendCompleted:   []string{m.Name()},
		Messages: []models.Message{{
			From: m.Name(),
			Content: fmt.Sprintf("Job compatibility analysis complete: %d analyzed, best match %s at %s (%d%%), average %.1f%%.",
				len(matches), results.BestMatch.JobTitle, results.BestMatch.Company,
				results.BestMatch.MatchPercentage, results.AverageScore),
			At: time.Now(),
		}},
	}), nil
}

func buildComparison(matches []models.JobMatch) *models.ComparisonResults {
	best := 0
	sum := 0
	high := 0
	excellent := 0
	for i, r := range matches {
		sum += r.MatchPercentage
		if r.MatchPercentage > matches[best].MatchPercentage {
			best = i
		}
		if r.MatchPercentage >= 70 {
			high++
		}
		if strings.EqualFold(r.FitLevel, "excellent") {
			excellent++
		}
	}
	recommendation := "consider_improvement"
	switch {
	case matches[best].MatchPercentage >= 80:
		recommendation = "excellent"
	case matches[best].MatchPercentage >= 60:
		recommendation = "good"
	}
	return &models.ComparisonResults{
		Matches:           matches,
		BestMatch:         &matches[best],
		AverageScore:      float64(sum) / float64(len(matches)),
		HighFitCount:      high,
		ExcellentFitCount: excellent,
		Recommendation:    recommendation,
	}
}

func matchPrompt(resume string, job models.JobListing) string {
	return fmt.Sprintf(`You are an expert job matching specialist with 20+ years of experience in recruitment.

TASK: Perform a comprehensive resume-to-job fit analysis against industry standards.

RESUME:
%s

JOB POSTING:
Title: %s
Company: %s
Location: %s
Description: %s

Respond with ONLY a JSON object, no prose, no code fences:
{
  "match_percentage": 85,
  "fit_level": "excellent/good/fair/poor",
  "strengths_for_role": ["..."],
  "missing_skills": ["..."],
  "application_strategy": ["..."],
  "interview_prep_points": ["..."],
  "salary_expectation": "...",
  "likelihood_of_success": "high/medium/low with reasoning"
}

Be brutally honest and specific. Focus on what recruiters actually look for.`,
		resume, job.Title, job.Company, job.Location, job.Description)
}
