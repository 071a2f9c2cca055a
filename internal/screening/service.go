// Package screening drives the resume-screening workflow: triggering the
// automation endpoint and reconciling the screened-candidate list the
// workflow writes back into the row store.
package screening

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"hrserver/internal/domain"
	"hrserver/internal/notify"
	"hrserver/internal/webhook"
)

// Store is the slice of the row store the service needs.
type Store interface {
	ListResults(ctx context.Context) ([]domain.ScreeningResult, error)
}

// Sender issues automation webhook calls.
type Sender interface {
	Send(ctx context.Context, payload webhook.Payload) error
}

// RefreshMode selects how a refresh touches the view flags.
type RefreshMode int

const (
	Foreground RefreshMode = iota
	Background
	BackgroundSilent
)

// Snapshot is a point-in-time copy of the screening view.
type Snapshot struct {
	Results    []domain.ScreeningResult
	Stats      domain.ScreeningStats
	Loading    bool
	Refreshing bool
	Activating bool
}

// Service owns the screening result cache and the single cross-call guard
// that keeps concurrent workflow triggers from doubling up.
type Service struct {
	store  Store
	hook   Sender
	notify notify.Notifier
	logger zerolog.Logger

	mu         sync.Mutex
	results    []domain.ScreeningResult
	loading    bool
	refreshing bool
	activating bool
}

// NewService constructs the screening service.
func NewService(store Store, hook Sender, notifier notify.Notifier, logger *zerolog.Logger) *Service {
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Service{store: store, hook: hook, notify: notifier, logger: l}
}

// Trigger activates the resume screening workflow. A trigger already in
// flight makes this a no-op; the check and the set share one critical
// section. On success the list is refreshed in background mode.
func (s *Service) Trigger(ctx context.Context) error {
	s.mu.Lock()
	if s.activating {
		s.mu.Unlock()
		return nil
	}
	s.activating = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.activating = false
		s.mu.Unlock()
	}()

	if err := s.hook.Send(ctx, webhook.ResumeScreening()); err != nil {
		s.notify.Error(err.Error())
		return err
	}

	s.notify.Success("Resume screening triggered successfully!")
	if err := s.Refresh(ctx, Background); err != nil {
		s.logger.Warn().Err(err).Msg("screening: refresh after trigger failed")
	}
	return nil
}

// Rescreen re-runs the workflow from the refresh control: guarded by the
// refreshing flag, followed by a silent fetch that leaves the indicator to
// this method.
func (s *Service) Rescreen(ctx context.Context) error {
	s.mu.Lock()
	if s.refreshing {
		s.mu.Unlock()
		return nil
	}
	s.refreshing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.refreshing = false
		s.mu.Unlock()
	}()

	if err := s.hook.Send(ctx, webhook.ResumeScreening()); err != nil {
		s.notify.Error(err.Error())
		return err
	}

	s.notify.Success("Resume screening refreshed successfully!")
	if err := s.Refresh(ctx, BackgroundSilent); err != nil {
		s.logger.Warn().Err(err).Msg("screening: refresh after rescreen failed")
	}
	return nil
}

// Refresh replaces the cached result set, sorted by overall score descending.
// On failure the previous results stay available and the error is surfaced.
func (s *Service) Refresh(ctx context.Context, mode RefreshMode) error {
	s.mu.Lock()
	switch mode {
	case Foreground:
		s.loading = true
	case Background:
		s.refreshing = true
	}
	s.mu.Unlock()

	results, err := s.store.ListResults(ctx)

	s.mu.Lock()
	switch mode {
	case Foreground:
		s.loading = false
	case Background:
		s.refreshing = false
	}
	if err == nil {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].OverallScore > results[j].OverallScore
		})
		s.results = results
	}
	s.mu.Unlock()

	if err != nil {
		s.notify.Error("Unable to load candidates. Please try again later.")
		return err
	}
	return nil
}

// Snapshot returns a copy of the current view state.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := make([]domain.ScreeningResult, len(s.results))
	copy(results, s.results)
	return Snapshot{
		Results:    results,
		Stats:      domain.SummarizeScreening(results),
		Loading:    s.loading,
		Refreshing: s.refreshing,
		Activating: s.activating,
	}
}

var titleCaser = cases.Title(language.English)

// DecisionLabel renders a screening decision for display; missing decisions
// read as a pending review.
func DecisionLabel(d domain.Decision) string {
	if d == "" {
		return "Pending Review"
	}
	return titleCaser.String(strings.ToLower(string(d)))
}
