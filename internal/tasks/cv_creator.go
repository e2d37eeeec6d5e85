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

// PDFRenderer is the slice of cvpdf.Renderer this task needs.
type PDFRenderer interface {
	Render(threadID, content string) (string, error)
}

// CVCreator rewrites the resume into an ATS-optimized CV and renders it to
// PDF. It needs the analyst's output and repairs the plan when it is missing.
type CVCreator struct {
	Client   llm.Client
	Renderer PDFRenderer
}

func (c *CVCreator) Name() string { return NameCVCreator }

func (c *CVCreator) Run(ctx context.Context, state *models.RunState) (task.Outcome, error) {
	if state.ResumeContent == "" && state.ResumePath != "" {
		if err := orchestrator.EnsureBefore(state.Plan, c.Name(), NameResumeAnalyst); err != nil {
			return task.Outcome{}, models.Categorized(models.CategoryPlanRepair, err)
		}
		return task.Patched(models.Patch{
			Plan: state.Plan,
			Messages: []models.Message{{
				From:    c.Name(),
				Content: "Requesting resume analysis first to create an optimal CV...",
				At:      time.Now(),
			}},
		}), nil
	}
	if state.ResumeContent == "" || state.ResumeAnalysis == nil {
		return task.Outcome{}, fmt.Errorf("missing resume content or analysis data; please provide a resume file")
	}

	text, err := c.Client.GenerateText(ctx, cvPrompt(state))
	if err != nil {
		return task.Outcome{}, fmt.Errorf("cv generation failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return task.Outcome{}, fmt.Errorf("cv generation returned empty content")
	}

	path, err := c.Renderer.Render(state.ThreadID, text)
	if err != nil {
		return task.Outcome{}, fmt.Errorf("cv rendering failed: %w", err)
	}

	return task.Patched(models.Patch{
		CVPath:          models.StrPtr(path),
		AppendCompleted: []string{c.Name()},
		Messages: []models.Message{{
			From:    c.Name(),
			Content: "Professional CV created: " + path,
			At:      time.Now(),
		}},
	}), nil
}

func cvPrompt(state *models.RunState) string {
	analysisJSON, _ := json.MarshalIndent(state.ResumeAnalysis, "", "  ")
	market := "No specific market data available"
	if state.MarketData != nil {
		if b, err := json.MarshalIndent(state.MarketData, "", "  "); err == nil {
			market = string(b)
		}
	}
	return fmt.Sprintf(`You are an expert CV writer with 25 years of experience helping professionals get hired.

TASK: Create a completely rewritten, ATS-optimized CV for this candidate.

ORIGINAL RESUME CONTENT (USE ALL INFORMATION):
%s

DETAILED ANALYSIS TO IMPLEMENT:
%s

MARKET INTELLIGENCE TO INTEGRATE:
%s

CRITICAL INSTRUCTIONS:
1. Rewrite completely; transform the content rather than copying it.
2. Use every piece of information from the original resume.
3. Implement the analysis suggestions and integrate market-relevant keywords naturally.
4. Add metrics and action verbs; make every bullet achievement-focused.
5. Preserve education dates exactly; never change "Expected" to completed.
6. Only use information explicitly present in the original resume.

FORMATTING FOR PDF:
- Use **SECTION NAME** for main section headers only.
- Use "- " for bullet points.
- Plain text otherwise; no markdown tables or code fences.`, state.ResumeContent, analysisJSON, market)
}
