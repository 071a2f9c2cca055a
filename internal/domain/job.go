package domain

import "time"

// JobStatus enumerates job-posting lifecycle states.
type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
)

// ShareStatus tracks the in-session automation state of a single job posting.
// It is never persisted; the authoritative posted_to_* flags live on the row.
type ShareStatus string

const (
	ShareIdle    ShareStatus = "idle"
	ShareLoading ShareStatus = "loading"
	ShareShared  ShareStatus = "shared"
)

// Job is a job posting owned by a single dashboard user.
type Job struct {
	ID          string
	UserID      string
	Title       string
	Description string

	// Optional columns kept from the earlier schema revision.
	Department     string
	Location       string
	EmploymentType string
	SalaryRange    string

	// BannerRef is either an inline data URI or a stored URL.
	BannerRef string

	PostedToLinkedIn  bool
	PostedToInstagram bool

	Status    JobStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBanner reports whether the posting carries a banner reference.
func (j Job) HasBanner() bool {
	return j.BannerRef != ""
}
