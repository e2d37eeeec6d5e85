// Package orchestrator drives a run from request to END one task at a time,
// with plan repair and suspend/resume at approval checkpoints.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/jobhunt-orchestrator/internal/checkpoint"
	"github.com/example/jobhunt-orchestrator/internal/models"
	"github.com/example/jobhunt-orchestrator/internal/task"
)

// PlannerTask is the dispatcher task invoked whenever no usable plan exists.
const PlannerTask = "planner"

// Options tune a Scheduler. Zero values fall back to defaults.
type Options struct {
	// Budget is the wall-clock ceiling for one active processing segment,
	// checked before every task dispatch. Suspended time does not count.
	Budget time.Duration
	// TaskTimeout bounds a single task invocation.
	TaskTimeout time.Duration
	Hub         *Hub
}

const (
	defaultBudget      = 300 * time.Second
	defaultTaskTimeout = 60 * time.Second
)

// Scheduler owns the run loop. It shares only the read-only registry across
// runs; every run gets its own RunState and checkpoint record.
type Scheduler struct {
	registry    *task.Registry
	store       checkpoint.Store
	hub         *Hub
	budget      time.Duration
	taskTimeout time.Duration
}

func New(reg *task.Registry, store checkpoint.Store, opts Options) *Scheduler {
	s := &Scheduler{
		registry:    reg,
		store:       store,
		hub:         opts.Hub,
		budget:      opts.Budget,
		taskTimeout: opts.TaskTimeout,
	}
	if s.budget <= 0 {
		s.budget = defaultBudget
	}
	if s.taskTimeout <= 0 {
		s.taskTimeout = defaultTaskTimeout
	}
	return s
}

// StartRequest is what a host hands to Start.
type StartRequest struct {
	ThreadID   string
	Request    string
	ResumePath string
}

// Start runs a new request until it completes, suspends for a decision, or
// fails. Exactly one of the three returns is non-zero.
func (s *Scheduler) Start(ctx context.Context, req StartRequest) (*models.RunResult, *models.PendingApproval, error) {
	threadID := req.ThreadID
	if threadID == "" {
		threadID = uuid.NewString()
	}
	st := models.NewRunState(threadID, req.Request, req.ResumePath, time.Now())
	s.publishStatus(st)
	return s.loop(ctx, st)
}

// loop drives the state machine. It returns when the run reaches END,
// suspends, or hits a fatal condition.
func (s *Scheduler) loop(ctx context.Context, st *models.RunState) (*models.RunResult, *models.PendingApproval, error) {
	start := time.Now()
	lastName := ""
	lastMark := ""

	for {
		if time.Since(start) > s.budget {
			return s.timeout(ctx, st, time.Since(start))
		}
		next := s.selectNext(st)
		if next != models.NextEnd && next == lastName && progressMark(st) == lastMark {
			// The plan re-selected the task that just ran without any state
			// progress. Terminating here can mask a real dependency bug, so
			// shout about it instead of looping.
			log.Printf("scheduler: plan scan re-selected task %q on %s without progress; forcing END", next, st.ThreadID)
			next = models.NextEnd
		}
		if next == models.NextEnd {
			return s.finish(ctx, st, time.Since(start))
		}

		tk, ok := s.registry.Get(next)
		if !ok {
			// A plan naming an unregistered task is a deployment bug, not
			// bad input.
			return s.fatal(ctx, st, models.Categorized(models.CategoryInfra,
				fmt.Errorf("%w: %q", models.ErrUnknownTask, next)))
		}

		st.NextTask = next
		s.hub.Publish(st.ThreadID, Event{Event: "task_status", ThreadID: st.ThreadID,
			Payload: map[string]any{"task": next, "state": "running"}})

		tctx, cancel := context.WithTimeout(ctx, s.taskTimeout)
		out, err := tk.Run(tctx, st)
		cancel()

		if err != nil {
			// Recoverable task failure: record it, mark the task done so the
			// scan advances, and keep the run alive.
			log.Printf("scheduler: task %s failed on %s: %v", next, st.ThreadID, err)
			st.Apply(models.Patch{
				AppendCompleted: []string{next},
				Messages: []models.Message{{
					From:    next,
					Content: fmt.Sprintf("%s failed: %v", next, err),
					At:      time.Now(),
				}},
			})
		} else {
			if out.Patch != nil {
				st.Apply(*out.Patch)
			}
			if out.Suspend != nil {
				return s.suspend(ctx, st, *out.Suspend)
			}
		}

		if st.Status == models.StatusPlanning && st.Plan != nil && len(st.Plan.ExecutionOrder) > 0 {
			st.Status = models.StatusRunning
		}
		// The run must not proceed past a task whose result is not durably
		// recorded; resume-after-crash would replay it against stale state.
		if err := s.store.Save(ctx, st.ThreadID, st); err != nil {
			return s.fatal(ctx, st, models.Categorized(models.CategoryInfra,
				fmt.Errorf("save checkpoint: %w", err)))
		}
		s.hub.Publish(st.ThreadID, Event{Event: "task_status", ThreadID: st.ThreadID,
			Payload: map[string]any{"task": next, "state": "done", "completed": st.CompletedTasks}})

		lastName = next
		lastMark = progressMark(st)
	}
}

// selectNext implements the next-task selection algorithm: honor an explicit
// END verbatim, otherwise run the planner until a plan exists, otherwise the
// first unfinished name in execution order, otherwise END.
func (s *Scheduler) selectNext(st *models.RunState) string {
	if st.NextTask == models.NextEnd {
		return models.NextEnd
	}
	if st.Plan == nil || len(st.Plan.ExecutionOrder) == 0 {
		if !st.Completed(PlannerTask) {
			return PlannerTask
		}
		return models.NextEnd
	}
	for _, name := range st.Plan.ExecutionOrder {
		if !st.Completed(name) {
			return name
		}
	}
	return models.NextEnd
}

func (s *Scheduler) finish(ctx context.Context, st *models.RunState, elapsed time.Duration) (*models.RunResult, *models.PendingApproval, error) {
	st.NextTask = models.NextEnd
	st.Status = models.StatusDone
	if err := s.store.Save(ctx, st.ThreadID, st); err != nil {
		return s.fatal(ctx, st, models.Categorized(models.CategoryInfra,
			fmt.Errorf("save final checkpoint: %w", err)))
	}
	s.publishStatus(st)
	return st.Result(elapsed), nil, nil
}

func (s *Scheduler) suspend(ctx context.Context, st *models.RunState, pa models.PendingApproval) (*models.RunResult, *models.PendingApproval, error) {
	pa.ThreadID = st.ThreadID
	st.PendingApproval = &pa
	st.NextTask = models.NextAwaitingApproval
	st.Status = models.StatusSuspended
	// The pending decision must be durable before control returns: resume
	// may arrive from another process.
	if err := s.store.Save(ctx, st.ThreadID, st); err != nil {
		return s.fatal(ctx, st, models.Categorized(models.CategoryInfra,
			fmt.Errorf("save suspension checkpoint: %w", err)))
	}
	s.hub.Publish(st.ThreadID, Event{Event: "pending_approval", ThreadID: st.ThreadID, Payload: pa})
	s.publishStatus(st)
	return nil, &pa, nil
}

func (s *Scheduler) timeout(ctx context.Context, st *models.RunState, elapsed time.Duration) (*models.RunResult, *models.PendingApproval, error) {
	st.Apply(models.Patch{
		NextTask: models.StrPtr(models.NextEnd),
		Messages: []models.Message{{
			From:    "scheduler",
			Content: fmt.Sprintf("processing timeout after %s", elapsed.Round(time.Millisecond)),
			At:      time.Now(),
		}},
	})
	st.Status = models.StatusFailed
	if err := s.store.Save(ctx, st.ThreadID, st); err != nil {
		log.Printf("scheduler: save timeout checkpoint for %s: %v", st.ThreadID, err)
	}
	s.publishStatus(st)
	return nil, nil, models.Categorized(models.CategoryTimeout,
		fmt.Errorf("%w after %s", models.ErrRunTimeout, elapsed.Round(time.Millisecond)))
}

// fatal marks the run FAILED and surfaces the categorized error. The
// checkpoint write here is best effort: the store may be the broken part.
func (s *Scheduler) fatal(ctx context.Context, st *models.RunState, err error) (*models.RunResult, *models.PendingApproval, error) {
	st.Status = models.StatusFailed
	if saveErr := s.store.Save(ctx, st.ThreadID, st); saveErr != nil {
		log.Printf("scheduler: save failed checkpoint for %s: %v", st.ThreadID, saveErr)
	}
	s.publishStatus(st)
	return nil, nil, err
}

func (s *Scheduler) publishStatus(st *models.RunState) {
	s.hub.Publish(st.ThreadID, Event{Event: "run_status", ThreadID: st.ThreadID,
		Payload: map[string]any{"status": st.Status, "next_task": st.NextTask}})
}

// progressMark fingerprints the parts of state a repeated selection should
// have changed: the completion set and the plan order.
func progressMark(st *models.RunState) string {
	var order []string
	if st.Plan != nil {
		order = st.Plan.ExecutionOrder
	}
	return fmt.Sprintf("%d|%s", len(st.CompletedTasks), strings.Join(order, ","))
}
