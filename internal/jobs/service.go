// Package jobs orchestrates job-posting actions: creation with optional
// auto-share, per-item social sharing, and reconciliation of the cached list
// against the authoritative row store.
package jobs

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"hrserver/internal/banner"
	"hrserver/internal/domain"
	"hrserver/internal/notify"
	"hrserver/internal/webhook"
)

// Store is the slice of the row store the service needs.
type Store interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Job, error)
	Insert(ctx context.Context, job domain.Job) error
}

// Sender issues automation webhook calls.
type Sender interface {
	Send(ctx context.Context, payload webhook.Payload) error
}

// RefreshMode selects how a list refresh touches the view flags.
type RefreshMode int

const (
	// Foreground sets the blocking loading flag for the duration of the fetch.
	Foreground RefreshMode = iota
	// Background toggles only the secondary refreshing indicator.
	Background
	// BackgroundSilent fetches without touching any flag.
	BackgroundSilent
)

// CreateJobInput carries the fields of a create-job action.
type CreateJobInput struct {
	Title          string
	Description    string
	Department     string
	Location       string
	EmploymentType string
	SalaryRange    string
	Banner         *banner.Image
	AutoShare      bool
}

// Snapshot is a point-in-time copy of the cached list state.
type Snapshot struct {
	Items      []domain.Job
	Loading    bool
	Refreshing bool
}

// Service owns one user's job-posting view: the cached list, its loading
// flags, and the per-item share tracker. Only the service mutates them.
type Service struct {
	userID  string
	store   Store
	hook    Sender
	banners *banner.Resolver
	notify  notify.Notifier
	logger  zerolog.Logger

	mu         sync.Mutex
	items      []domain.Job
	loading    bool
	refreshing bool

	tracker *ShareTracker
}

// Config wires a job service for one user.
type Config struct {
	UserID   string
	Store    Store
	Webhook  Sender
	Banners  *banner.Resolver
	Notifier notify.Notifier
	Logger   *zerolog.Logger
}

// NewService constructs the per-user service.
func NewService(cfg Config) *Service {
	logger := zerolog.New(io.Discard)
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	banners := cfg.Banners
	if banners == nil {
		banners = banner.NewResolver(nil)
	}
	return &Service{
		userID:  cfg.UserID,
		store:   cfg.Store,
		hook:    cfg.Webhook,
		banners: banners,
		notify:  cfg.Notifier,
		logger:  logger,
		tracker: NewShareTracker(),
	}
}

// CreateJob runs the create pipeline: local validation, optional auto-share
// webhook, persistence, then a refresh of the authoritative list. An
// auto-share failure blocks persistence outright; a persistence failure after
// a sent webhook is surfaced but not compensated.
func (s *Service) CreateJob(ctx context.Context, in CreateJobInput) (*domain.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.Validation("title", "job title is required")
	}
	if in.AutoShare && in.Banner == nil {
		return nil, domain.Validation("banner", "a banner image is required to auto-share")
	}

	if in.AutoShare {
		att := attachment(title, *in.Banner)
		if err := s.hook.Send(ctx, webhook.JobPosting(title, &att)); err != nil {
			s.notify.Error(err.Error())
			return nil, err
		}
	}

	job := domain.Job{
		ID:             uuid.NewString(),
		UserID:         s.userID,
		Title:          title,
		Description:    strings.TrimSpace(in.Description),
		Department:     strings.TrimSpace(in.Department),
		Location:       strings.TrimSpace(in.Location),
		EmploymentType: in.EmploymentType,
		SalaryRange:    strings.TrimSpace(in.SalaryRange),
		Status:         domain.JobStatusActive,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if in.Banner != nil {
		job.BannerRef = banner.Encode(*in.Banner)
	}
	if err := s.store.Insert(ctx, job); err != nil {
		s.notify.Error(err.Error())
		return nil, err
	}

	s.notify.Success("Job posted successfully!")
	if err := s.Refresh(ctx, Foreground); err != nil {
		s.logger.Warn().Err(err).Msg("jobs: refresh after create failed")
	}
	return &job, nil
}

// Share runs the per-item share action. It proceeds only if the item is idle,
// re-derives the multipart payload from the stored banner reference, and
// returns the item to idle on any failure so the user can retry.
func (s *Service) Share(ctx context.Context, jobID string) error {
	if !s.tracker.Begin(jobID) {
		return nil
	}

	job, ok := s.find(jobID)
	if !ok {
		s.tracker.Fail(jobID)
		return domain.ErrNotFound
	}
	img, err := s.banners.Resolve(ctx, job.BannerRef)
	if err != nil {
		s.tracker.Fail(jobID)
		s.notify.Error("This job posting has no banner image to share")
		return err
	}

	att := attachment(job.Title, img)
	if err := s.hook.Send(ctx, webhook.JobPosting(job.Title, &att)); err != nil {
		s.tracker.Fail(jobID)
		s.notify.Error(err.Error())
		return err
	}

	s.tracker.Succeed(jobID)
	s.notify.Success("Job posting shared successfully!")
	return nil
}

// Refresh replaces the cached list from the row store. On success the whole
// list is swapped and the share tracker wiped; on failure the stale list is
// kept and the error surfaced. Flags are always cleared on completion.
func (s *Service) Refresh(ctx context.Context, mode RefreshMode) error {
	s.mu.Lock()
	switch mode {
	case Foreground:
		s.loading = true
	case Background:
		s.refreshing = true
	}
	s.mu.Unlock()

	items, err := s.store.ListByUser(ctx, s.userID)

	s.mu.Lock()
	switch mode {
	case Foreground:
		s.loading = false
	case Background:
		s.refreshing = false
	}
	if err == nil {
		s.items = items
	}
	s.mu.Unlock()

	if err != nil {
		s.notify.Error("Unable to load job postings. Please try again later.")
		return err
	}
	s.tracker.Reset()
	return nil
}

// Snapshot returns a copy of the current list state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.Job, len(s.items))
	copy(items, s.items)
	return Snapshot{Items: items, Loading: s.loading, Refreshing: s.refreshing}
}

// ShareStatus reports the per-item automation state for one posting.
func (s *Service) ShareStatus(jobID string) domain.ShareStatus {
	return s.tracker.Status(jobID)
}

func (s *Service) find(jobID string) (domain.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.items {
		if j.ID == jobID {
			return j, true
		}
	}
	return domain.Job{}, false
}

func attachment(title string, img banner.Image) webhook.Attachment {
	return webhook.Attachment{
		Field:       "image",
		Filename:    banner.Filename(title, img),
		ContentType: img.ContentType,
		Data:        img.Data,
	}
}
