package models

import "time"

// RunState is the single mutable record threaded through every task call.
// Exactly one task mutates it per scheduler step, always through Apply.
type RunState struct {
	ThreadID      string    `json:"thread_id"`
	Request       string    `json:"user_request"`
	ResumePath    string    `json:"resume_path,omitempty"`
	ResumeContent string    `json:"resume_content,omitempty"`
	ClarifiedRole string    `json:"clarified_role,omitempty"`
	StartedAt     time.Time `json:"started_at"`

	ResumeAnalysis    *ResumeAnalysis    `json:"resume_analysis,omitempty"`
	MarketData        *MarketData        `json:"job_market_data,omitempty"`
	JobListings       []JobListing       `json:"job_listings,omitempty"`
	CVPath            string             `json:"cv_path,omitempty"`
	ComparisonResults *ComparisonResults `json:"comparison_results,omitempty"`

	Plan            *ExecutionPlan   `json:"plan,omitempty"`
	CompletedTasks  []string         `json:"completed_tasks"`
	NextTask        string           `json:"next_task,omitempty"`
	PendingApproval *PendingApproval `json:"pending_approval,omitempty"`
	FeedbackText    string           `json:"feedback_text,omitempty"`
	PlanRejected    bool             `json:"plan_rejected"`

	Status   Status    `json:"status"`
	Messages []Message `json:"messages,omitempty"`
}

// NewRunState builds the initial state for a run.
func NewRunState(threadID, request, resumePath string, now time.Time) *RunState {
	return &RunState{
		ThreadID:       threadID,
		Request:        request,
		ResumePath:     resumePath,
		StartedAt:      now,
		Status:         StatusPlanning,
		CompletedTasks: []string{},
	}
}

// Completed reports whether the named task already ran in the current pass.
func (s *RunState) Completed(name string) bool {
	for _, t := range s.CompletedTasks {
		if t == name {
			return true
		}
	}
	return false
}

// Result projects the caller-facing fields out of the state.
func (s *RunState) Result(elapsed time.Duration) *RunResult {
	return &RunResult{
		ThreadID:          s.ThreadID,
		Status:            s.Status,
		CompletedTasks:    append([]string(nil), s.CompletedTasks...),
		Messages:          append([]Message(nil), s.Messages...),
		ResumeAnalysis:    s.ResumeAnalysis,
		MarketData:        s.MarketData,
		JobListings:       s.JobListings,
		CVPath:            s.CVPath,
		ComparisonResults: s.ComparisonResults,
		Elapsed:           elapsed,
	}
}
