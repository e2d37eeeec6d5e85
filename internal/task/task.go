package task

import (
	"context"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

// Outcome is what a task invocation produces: a state patch, a suspension
// request, or both (a task may record progress and then ask for a decision).
// Suspension is an ordinary return value, never a panic or sentinel error.
type Outcome struct {
	Patch   *models.Patch
	Suspend *models.PendingApproval
}

// Patched wraps a patch in an Outcome.
func Patched(p models.Patch) Outcome { return Outcome{Patch: &p} }

// Suspended builds a suspension outcome carrying an optional progress patch.
func Suspended(pa models.PendingApproval, p *models.Patch) Outcome {
	return Outcome{Patch: p, Suspend: &pa}
}

// Task is one named unit of work. Run must respect ctx and never block
// indefinitely; external calls carry their own timeouts. A returned error is
// a recoverable task failure, not a scheduler fault.
type Task interface {
	Name() string
	Run(ctx context.Context, state *models.RunState) (Outcome, error)
}
