package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/supabase-community/postgrest-go"

	"hrserver/internal/domain"
)

type jobRow struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Department        string    `json:"department"`
	Location          string    `json:"location"`
	EmploymentType    string    `json:"employment_type"`
	SalaryRange       string    `json:"salary_range"`
	BannerImageURL    string    `json:"banner_image_url"`
	PostedToLinkedIn  bool      `json:"posted_to_linkedin"`
	PostedToInstagram bool      `json:"posted_to_instagram"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// JobStore reads and writes the jobs table.
type JobStore struct {
	c *Client
}

// NewJobStore constructs the store.
func NewJobStore(c *Client) *JobStore {
	return &JobStore{c: c}
}

// ListByUser returns the user's postings, newest first.
func (s *JobStore) ListByUser(ctx context.Context, userID string) ([]domain.Job, error) {
	data, _, err := s.c.sb.From("jobs").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		Execute()
	if err != nil {
		return nil, remoteErr("list jobs", err)
	}
	var rows []jobRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, remoteErr("decode jobs", err)
	}
	jobs := make([]domain.Job, 0, len(rows))
	for _, r := range rows {
		jobs = append(jobs, r.toDomain())
	}
	return jobs, nil
}

// Insert persists one new posting.
func (s *JobStore) Insert(ctx context.Context, job domain.Job) error {
	row := jobRow{
		ID:             job.ID,
		UserID:         job.UserID,
		Title:          job.Title,
		Description:    job.Description,
		Department:     job.Department,
		Location:       job.Location,
		EmploymentType: job.EmploymentType,
		SalaryRange:    job.SalaryRange,
		BannerImageURL: job.BannerRef,
		Status:         string(job.Status),
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
	if _, _, err := s.c.sb.From("jobs").Insert(row, false, "", "minimal", "").Execute(); err != nil {
		return remoteErr("insert job", err)
	}
	return nil
}

func (r jobRow) toDomain() domain.Job {
	return domain.Job{
		ID:                r.ID,
		UserID:            r.UserID,
		Title:             r.Title,
		Description:       r.Description,
		Department:        r.Department,
		Location:          r.Location,
		EmploymentType:    r.EmploymentType,
		SalaryRange:       r.SalaryRange,
		BannerRef:         r.BannerImageURL,
		PostedToLinkedIn:  r.PostedToLinkedIn,
		PostedToInstagram: r.PostedToInstagram,
		Status:            domain.JobStatus(r.Status),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
