package models

import (
	"errors"
	"fmt"
)

// ErrorCategory tags every error surfaced to a caller so the host can decide
// whether to retry the run.
type ErrorCategory string

const (
	CategoryTask             ErrorCategory = "task_failure"
	CategoryPlanRepair       ErrorCategory = "plan_repair_failure"
	CategoryApprovalProtocol ErrorCategory = "approval_protocol_violation"
	CategoryInfra            ErrorCategory = "infrastructure_failure"
	CategoryTimeout          ErrorCategory = "timeout"
)

var (
	ErrNotAwaitingApproval = errors.New("job is not awaiting approval")
	ErrRunNotFound         = errors.New("run not found")
	ErrUnknownTask         = errors.New("unknown task")
	ErrCyclicDependency    = errors.New("cyclic dependency")
	ErrRunTimeout          = errors.New("processing timeout")
)

// CategorizedError wraps an error with its category.
type CategorizedError struct {
	Category ErrorCategory
	Err      error
}

func (e *CategorizedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *CategorizedError) Unwrap() error { return e.Err }

// Categorized wraps err with the given category.
func Categorized(cat ErrorCategory, err error) error {
	return &CategorizedError{Category: cat, Err: err}
}

// CategoryOf returns the category of err, or CategoryTask if untagged.
func CategoryOf(err error) ErrorCategory {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryTask
}
