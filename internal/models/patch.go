package models

// Patch is a field-level partial update returned by a task. Nil fields leave
// the state untouched; Messages are prepended; AppendCompleted adds names to
// CompletedTasks without duplicating.
type Patch struct {
	ResumeContent     *string            `json:"resume_content,omitempty"`
	ClarifiedRole     *string            `json:"clarified_role,omitempty"`
	ResumeAnalysis    *ResumeAnalysis    `json:"resume_analysis,omitempty"`
	MarketData        *MarketData        `json:"job_market_data,omitempty"`
	JobListings       []JobListing       `json:"job_listings,omitempty"`
	CVPath            *string            `json:"cv_path,omitempty"`
	ComparisonResults *ComparisonResults `json:"comparison_results,omitempty"`
	Plan              *ExecutionPlan     `json:"plan,omitempty"`
	AppendCompleted   []string           `json:"append_completed,omitempty"`
	NextTask          *string            `json:"next_task,omitempty"`
	FeedbackText      *string            `json:"feedback_text,omitempty"`
	PlanRejected      *bool              `json:"plan_rejected,omitempty"`
	Messages          []Message          `json:"messages,omitempty"`
}

// Apply merges the patch into the state, field by field. This is the only
// place state mutation from task output happens.
func (s *RunState) Apply(p Patch) {
	if p.ResumeContent != nil {
		s.ResumeContent = *p.ResumeContent
	}
	if p.ClarifiedRole != nil {
		s.ClarifiedRole = *p.ClarifiedRole
	}
	if p.ResumeAnalysis != nil {
		s.ResumeAnalysis = p.ResumeAnalysis
	}
	if p.MarketData != nil {
		s.MarketData = p.MarketData
	}
	if p.JobListings != nil {
		s.JobListings = p.JobListings
	}
	if p.CVPath != nil {
		s.CVPath = *p.CVPath
	}
	if p.ComparisonResults != nil {
		s.ComparisonResults = p.ComparisonResults
	}
	if p.Plan != nil {
		s.Plan = p.Plan
	}
	for _, name := range p.AppendCompleted {
		if !s.Completed(name) {
			s.CompletedTasks = append(s.CompletedTasks, name)
		}
	}
	if p.NextTask != nil {
		s.NextTask = *p.NextTask
	} else {
		// No explicit routing: the scheduler's scan decides.
		s.NextTask = ""
	}
	if p.FeedbackText != nil {
		s.FeedbackText = *p.FeedbackText
	}
	if p.PlanRejected != nil {
		s.PlanRejected = *p.PlanRejected
	}
	if len(p.Messages) > 0 {
		s.Messages = append(append([]Message(nil), p.Messages...), s.Messages...)
	}
}

// StrPtr is a convenience for optional patch fields.
func StrPtr(s string) *string { return &s }

// BoolPtr is a convenience for optional patch fields.
func BoolPtr(b bool) *bool { return &b }
