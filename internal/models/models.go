package models

import (
	"time"
)

type Status string

const (
	StatusPlanning  Status = "PLANNING"
	StatusRunning   Status = "RUNNING"
	StatusSuspended Status = "SUSPENDED"
	StatusDone      Status = "DONE"
	StatusFailed    Status = "FAILED"
)

// Sentinel values for RunState.NextTask.
const (
	NextEnd              = "END"
	NextAwaitingApproval = "AWAITING_APPROVAL"
)

// Approval checkpoint kinds.
const (
	ApprovalKindPlan          = "plan-approval"
	ApprovalKindClarification = "clarification"
)

// ExecutionPlan is the ordered task list chosen to satisfy a request. Tasks
// may repair it mid-run through the resolver; Constraints records the
// orderings already imposed so conflicting repairs are detected.
type ExecutionPlan struct {
	PrimaryGoal    string            `json:"primary_goal"`
	ExecutionOrder []string          `json:"execution_order"`
	NextTask       string            `json:"next_task,omitempty"`
	Reasoning      string            `json:"reasoning,omitempty"`
	Constraints    []OrderConstraint `json:"constraints,omitempty"`
}

// OrderConstraint records that Before must precede After in ExecutionOrder.
type OrderConstraint struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Message is one entry in the run transcript, newest first.
type Message struct {
	From    string    `json:"from"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// PendingApproval is the decision request a suspended run is waiting on.
// It is consumed exactly once when a decision arrives.
type PendingApproval struct {
	ThreadID string         `json:"thread_id"`
	Kind     string         `json:"kind"`
	Summary  string         `json:"summary"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// Decision is the caller's answer to a PendingApproval.
type Decision struct {
	Approved      bool   `json:"approved"`
	Feedback      string `json:"feedback,omitempty"`
	ClarifiedRole string `json:"clarified_role,omitempty"`
}

type ResumeAnalysis struct {
	OverallScore         int       `json:"overall_score"`
	Strengths            []string  `json:"resume_strengths"`
	Weaknesses           []string  `json:"resume_weaknesses"`
	KeywordOptimization  []string  `json:"keyword_optimization,omitempty"`
	ExperienceGaps       []string  `json:"experience_gaps,omitempty"`
	FormattingIssues     []string  `json:"formatting_issues,omitempty"`
	MarketAlignment      string    `json:"market_alignment,omitempty"`
	SpecificImprovements []string  `json:"specific_improvements,omitempty"`
	PossibleJobs         []string  `json:"possible_jobs"`
	TargetRoles          []string  `json:"target_roles"`
	CareerLevel          string    `json:"career_level"`
	IndustryFocus        string    `json:"industry_focus"`
	ATSCompatibility     ATSReport `json:"ats_compatibility"`
	NextSteps            []string  `json:"next_steps,omitempty"`
}

type ATSReport struct {
	Score           int      `json:"score"`
	Issues          []string `json:"issues,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

type JobListing struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Salary      string    `json:"salary"`
	ApplyURL    string    `json:"apply_url"`
	Source      string    `json:"source"`
	DateFound   time.Time `json:"date_found"`
}

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MarketData struct {
	RoleResearched   string         `json:"role_researched"`
	TotalJobsFound   int            `json:"total_jobs_found"`
	TopCompanies     []NameCount    `json:"top_companies"`
	PopularLocations []NameCount    `json:"popular_locations"`
	InDemandKeywords []string       `json:"in_demand_keywords"`
	Insights         MarketInsights `json:"market_insights"`
	AnalysisMode     string         `json:"analysis_mode"`
}

type MarketInsights struct {
	DemandLevel        string  `json:"demand_level"`
	RemotePercentage   float64 `json:"remote_percentage"`
	TopHiringCompany   string  `json:"top_hiring_company"`
	CompetitionLevel   string  `json:"competition_level"`
	SalaryTransparency float64 `json:"salary_transparency"`
}

type JobMatch struct {
	JobTitle            string   `json:"job_title"`
	Company             string   `json:"company"`
	MatchPercentage     int      `json:"match_percentage"`
	FitLevel            string   `json:"fit_level"`
	StrengthsForRole    []string `json:"strengths_for_role,omitempty"`
	MissingSkills       []string `json:"missing_skills,omitempty"`
	ApplicationStrategy []string `json:"application_strategy,omitempty"`
	InterviewPrepPoints []string `json:"interview_prep_points,omitempty"`
	SalaryExpectation   string   `json:"salary_expectation,omitempty"`
	LikelihoodOfSuccess string   `json:"likelihood_of_success,omitempty"`
}

type ComparisonResults struct {
	Matches           []JobMatch `json:"matches"`
	BestMatch         *JobMatch  `json:"best_match,omitempty"`
	AverageScore      float64    `json:"average_score"`
	HighFitCount      int        `json:"high_fit_count"`
	ExcellentFitCount int        `json:"excellent_fit_count"`
	Recommendation    string     `json:"recommendation"`
}

// RunResult is the terminal shape returned to the caller once a run reaches
// END. A FAILED run yields a categorized error instead.
type RunResult struct {
	ThreadID          string             `json:"thread_id"`
	Status            Status             `json:"status"`
	CompletedTasks    []string           `json:"completed_tasks"`
	Messages          []Message          `json:"messages,omitempty"`
	ResumeAnalysis    *ResumeAnalysis    `json:"resume_analysis,omitempty"`
	MarketData        *MarketData        `json:"job_market_data,omitempty"`
	JobListings       []JobListing       `json:"job_listings,omitempty"`
	CVPath            string             `json:"cv_path,omitempty"`
	ComparisonResults *ComparisonResults `json:"comparison_results,omitempty"`
	Elapsed           time.Duration      `json:"elapsed_ns"`
}
