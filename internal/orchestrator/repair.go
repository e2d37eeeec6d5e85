package orchestrator

import (
	"fmt"

	"github.com/example/jobhunt-orchestrator/internal/models"
)

// EnsureBefore repairs a plan so that prerequisite precedes dependent in its
// execution order. It is a no-op when the ordering already holds, inserts
// prerequisite immediately before dependent when absent, and moves it there
// when it sits after dependent. Each applied repair is recorded as an order
// constraint; a repair that contradicts a recorded constraint fails with
// ErrCyclicDependency and leaves the plan untouched.
func EnsureBefore(plan *models.ExecutionPlan, dependent, prerequisite string) error {
	if plan == nil {
		return fmt.Errorf("ensure %q before %q: nil plan", prerequisite, dependent)
	}
	if dependent == prerequisite {
		return fmt.Errorf("%w: %q depends on itself", models.ErrCyclicDependency, dependent)
	}
	// A recorded chain dependent => ... => prerequisite means dependent must
	// already precede prerequisite; ordering prerequisite first would cycle.
	if constraintPath(plan.Constraints, dependent, prerequisite) {
		return fmt.Errorf("%w: %q must precede %q", models.ErrCyclicDependency, dependent, prerequisite)
	}

	order := plan.ExecutionOrder
	depIdx := indexOf(order, dependent)
	preIdx := indexOf(order, prerequisite)

	switch {
	case depIdx == -1:
		// Dependent not scheduled at all: append prerequisite then dependent.
		if preIdx == -1 {
			order = append(order, prerequisite)
		}
		order = append(order, dependent)
	case preIdx == -1:
		order = insertAt(order, depIdx, prerequisite)
	case preIdx < depIdx:
		// Ordering already satisfied.
	default:
		order = append(order[:preIdx], order[preIdx+1:]...)
		order = insertAt(order, indexOf(order, dependent), prerequisite)
	}
	plan.ExecutionOrder = order

	plan.Constraints = addConstraint(plan.Constraints, models.OrderConstraint{
		Before: prerequisite,
		After:  dependent,
	})
	return nil
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func insertAt(names []string, idx int, name string) []string {
	out := make([]string, 0, len(names)+1)
	out = append(out, names[:idx]...)
	out = append(out, name)
	return append(out, names[idx:]...)
}

func addConstraint(cs []models.OrderConstraint, c models.OrderConstraint) []models.OrderConstraint {
	for _, have := range cs {
		if have == c {
			return cs
		}
	}
	return append(cs, c)
}

// constraintPath reports whether the constraint graph requires from to
// (transitively) precede to.
func constraintPath(cs []models.OrderConstraint, from, to string) bool {
	next := map[string][]string{}
	for _, c := range cs {
		next[c.Before] = append(next[c.Before], c.After)
	}
	seen := map[string]bool{}
	stack := []string{from}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == to {
			return true
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		stack = append(stack, next[n]...)
	}
	return false
}
