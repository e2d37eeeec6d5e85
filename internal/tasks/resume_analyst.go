package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/example/jobhunt-orchestrator/internal/docparse"
	"github.com/example/jobhunt-orchestrator/internal/models"
	"github.com/example/jobhunt-orchestrator/internal/providers/llm"
	"github.com/example/jobhunt-orchestrator/internal/task"
)

// ResumeAnalyst parses the uploaded resume and produces a structured
// analysis most downstream tasks build on.
type ResumeAnalyst struct {
	Client llm.Client
	// Parse is swappable in tests; nil means docparse.Parse.
	Parse func(path string) (string, error)
}

func (a *ResumeAnalyst) Name() string { return NameResumeAnalyst }

func (a *ResumeAnalyst) Run(ctx context.Context, state *models.RunState) (task.Outcome, error) {
	parse := a.Parse
	if parse == nil {
		parse = docparse.Parse
	}
	content, err := parse(state.ResumePath)
	if err != nil {
		return task.Outcome{}, fmt.Errorf("no valid resume file provided: %w", err)
	}

	raw, err := a.Client.GenerateText(ctx, analysisPrompt(content))
	if err != nil {
		return task.Outcome{}, fmt.Errorf("analysis failed: %w", err)
	}
	var analysis models.ResumeAnalysis
	if err := json.Unmarshal([]byte(normalizeJSONText(raw)), &analysis); err != nil {
		return task.Outcome{}, fmt.Errorf("failed to parse analysis results: %w", err)
	}

	return task.Patched(models.Patch{
		ResumeContent:   models.StrPtr(content),
		ResumeAnalysis:  &analysis,
		AppendCompleted: []string{a.Name()},
		Messages: []models.Message{{
			From:    a.Name(),
			Content: analysisSummary(&analysis),
			At:      time.Now(),
		}},
	}), nil
}

func analysisPrompt(content string) string {
	return fmt.Sprintf(`You are an expert HR manager and recruiter with 25 years of experience hiring top talent.
Analyze this resume against real-world hiring standards.

RESUME CONTENT:
%s

Provide detailed analysis as ONLY a JSON object with this shape, no prose, no code fences:
{
  "overall_score": 85,
  "resume_strengths": ["..."],
  "resume_weaknesses": ["..."],
  "keyword_optimization": ["..."],
  "experience_gaps": ["..."],
  "formatting_issues": ["..."],
  "market_alignment": "...",
  "specific_improvements": ["..."],
  "possible_jobs": ["1-3 job roles this resume is best suited for"],
  "target_roles": ["..."],
  "career_level": "entry/mid/senior/executive",
  "industry_focus": "...",
  "ats_compatibility": {"score": 90, "issues": ["..."], "recommendations": ["..."]},
  "next_steps": ["..."]
}

Be thorough, specific, and actionable. The end goal is to optimize this resume to help the user get a job.`, content)
}

func analysisSummary(a *models.ResumeAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Resume analysis complete. Overall score: %d/100.", a.OverallScore)
	if a.CareerLevel != "" {
		fmt.Fprintf(&b, " Career level: %s.", a.CareerLevel)
	}
	if a.IndustryFocus != "" {
		fmt.Fprintf(&b, " Industry focus: %s.", a.IndustryFocus)
	}
	if len(a.TargetRoles) > 0 {
		fmt.Fprintf(&b, " Target roles: %s.", strings.Join(a.TargetRoles, ", "))
	}
	if a.ATSCompatibility.Score > 0 {
		fmt.Fprintf(&b, " ATS compatibility: %d/100.", a.ATSCompatibility.Score)
	}
	return b.String()
}
