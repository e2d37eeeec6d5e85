package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/jobhunt-orchestrator/internal/checkpoint"
	"github.com/example/jobhunt-orchestrator/internal/models"
)

// Resume delivers a decision to a suspended run and re-enters the run loop
// from the persisted checkpoint. If the run immediately suspends again the
// new PendingApproval is returned; callers must handle chained suspensions.
//
// Resuming a run that is not suspended fails without mutating stored state,
// so a duplicate decision can never re-run tasks.
func (s *Scheduler) Resume(ctx context.Context, threadID string, d models.Decision) (*models.RunResult, *models.PendingApproval, error) {
	st, err := s.store.Load(ctx, threadID)
	if err != nil {
		if errors.Is(err, checkpoint.ErrNotFound) {
			return nil, nil, models.Categorized(models.CategoryApprovalProtocol,
				fmt.Errorf("%w: %s", models.ErrRunNotFound, threadID))
		}
		return nil, nil, models.Categorized(models.CategoryInfra,
			fmt.Errorf("load checkpoint: %w", err))
	}
	if st.Status != models.StatusSuspended || st.PendingApproval == nil {
		return nil, nil, models.Categorized(models.CategoryApprovalProtocol,
			fmt.Errorf("%w: %s", models.ErrNotAwaitingApproval, threadID))
	}

	pa := st.PendingApproval
	st.PendingApproval = nil
	st.NextTask = ""
	applyDecision(st, pa, d)

	// Persist the consumed approval before running anything, so a duplicate
	// resume observes the run as no longer suspended even after a crash.
	if err := s.store.Save(ctx, st.ThreadID, st); err != nil {
		return nil, nil, models.Categorized(models.CategoryInfra,
			fmt.Errorf("save resumed checkpoint: %w", err))
	}
	s.publishStatus(st)
	return s.loop(ctx, st)
}

func applyDecision(st *models.RunState, pa *models.PendingApproval, d models.Decision) {
	now := time.Now()
	switch {
	case pa.Kind == models.ApprovalKindPlan && !d.Approved:
		// Rejection restarts planning from scratch with the feedback in hand.
		st.CompletedTasks = []string{}
		st.PlanRejected = true
		st.FeedbackText = d.Feedback
		st.Plan = nil
		st.Status = models.StatusPlanning
		st.Messages = append([]models.Message{{
			From:    "approval",
			Content: fmt.Sprintf("plan rejected: %s", d.Feedback),
			At:      now,
		}}, st.Messages...)
	case pa.Kind == models.ApprovalKindClarification:
		if role := strings.TrimSpace(d.ClarifiedRole); role != "" {
			st.ClarifiedRole = role
		} else if fb := strings.TrimSpace(d.Feedback); fb != "" {
			st.ClarifiedRole = fb
		}
		st.Status = models.StatusRunning
		st.Messages = append([]models.Message{{
			From:    "approval",
			Content: fmt.Sprintf("role clarified: %s", st.ClarifiedRole),
			At:      now,
		}}, st.Messages...)
	default:
		st.Status = models.StatusRunning
		st.Messages = append([]models.Message{{
			From:    "approval",
			Content: "plan approved",
			At:      now,
		}}, st.Messages...)
	}
}
