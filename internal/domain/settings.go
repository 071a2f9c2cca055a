package domain

import "time"

// Profile mirrors the profiles row kept in sync with the identity provider.
type Profile struct {
	ID        string
	Email     string
	FullName  string
	AvatarURL string
	UpdatedAt time.Time
}

// CompanySettings is the per-user dashboard configuration row.
type CompanySettings struct {
	ID                   string
	UserID               string
	CompanyName          string
	CompanyLogo          string
	LinkedInIntegration  bool
	InstagramIntegration bool
	Theme                string
}

// AnalyticsSummary aggregates the dashboard overview numbers.
type AnalyticsSummary struct {
	ActiveJobs        int64
	TotalEmployees    int64
	AvgPerformance    float64
	AttendanceRate    float64
	PayrollPaidYTD    int64
	PayrollPendingYTD int64
	Shortlisted       int64
	ScreeningPending  int64
}

// DepartmentHeadcount is one row of the headcount-by-department chart.
type DepartmentHeadcount struct {
	Department string
	Count      int64
}
