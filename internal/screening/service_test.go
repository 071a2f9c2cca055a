package screening

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hrserver/internal/domain"
	"hrserver/internal/webhook"
)

type fakeStore struct {
	mu      sync.Mutex
	results []domain.ScreeningResult
	err     error
	calls   int
}

func (f *fakeStore) ListResults(ctx context.Context) ([]domain.ScreeningResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.ScreeningResult, len(f.results))
	copy(out, f.results)
	return out, nil
}

type fakeSender struct {
	mu    sync.Mutex
	err   error
	block chan struct{}
	calls int
}

func (f *fakeSender) Send(ctx context.Context, payload webhook.Payload) error {
	f.mu.Lock()
	f.calls++
	err := f.err
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, message)
}

func (f *fakeNotifier) Error(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, message)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not reached in time")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestTriggerSendsMarkerAndRefreshes(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc := NewService(store, hook, notifier, nil)

	if err := svc.Trigger(context.Background()); err != nil {
		t.Fatalf("trigger: %v", err)
	}
	if hook.callCount() != 1 {
		t.Fatalf("expected 1 webhook call, got %d", hook.callCount())
	}
	if store.calls != 1 {
		t.Fatalf("expected background refresh after trigger, got %d fetches", store.calls)
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Resume screening triggered successfully!" {
		t.Fatalf("success notifications: %#v", notifier.successes)
	}
	if svc.Snapshot().Activating {
		t.Fatalf("activating flag must clear")
	}
}

func TestTriggerConcurrentRunsOnce(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{block: make(chan struct{})}
	notifier := &fakeNotifier{}
	svc := NewService(store, hook, notifier, nil)

	done := make(chan error, 1)
	go func() { done <- svc.Trigger(context.Background()) }()

	waitFor(t, func() bool { return svc.Snapshot().Activating })

	if err := svc.Trigger(context.Background()); err != nil {
		t.Fatalf("second trigger should no-op, got %v", err)
	}
	if hook.callCount() != 1 {
		t.Fatalf("expected 1 webhook call while guarded, got %d", hook.callCount())
	}

	close(hook.block)
	if err := <-done; err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.successes) != 1 {
		t.Fatalf("one notification per event: %#v", notifier.successes)
	}
}

func TestTriggerWebhookFailure(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{err: errors.New("workflow offline")}
	notifier := &fakeNotifier{}
	svc := NewService(store, hook, notifier, nil)

	if err := svc.Trigger(context.Background()); err == nil {
		t.Fatalf("expected trigger failure")
	}
	if store.calls != 0 {
		t.Fatalf("no refresh expected on failure")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected one error notification: %#v", notifier.errors)
	}
	if svc.Snapshot().Activating {
		t.Fatalf("guard must release on failure")
	}
}

func TestRescreenGuardedByRefreshingFlag(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{block: make(chan struct{})}
	notifier := &fakeNotifier{}
	svc := NewService(store, hook, notifier, nil)

	done := make(chan error, 1)
	go func() { done <- svc.Rescreen(context.Background()) }()

	waitFor(t, func() bool { return svc.Snapshot().Refreshing })

	if err := svc.Rescreen(context.Background()); err != nil {
		t.Fatalf("second rescreen should no-op, got %v", err)
	}
	if hook.callCount() != 1 {
		t.Fatalf("expected 1 webhook call while guarded, got %d", hook.callCount())
	}

	close(hook.block)
	if err := <-done; err != nil {
		t.Fatalf("first rescreen: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected one silent fetch, got %d", store.calls)
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if len(notifier.successes) != 1 || notifier.successes[0] != "Resume screening refreshed successfully!" {
		t.Fatalf("success notifications: %#v", notifier.successes)
	}
}

func TestRefreshSortsByOverallScoreDescending(t *testing.T) {
	store := &fakeStore{results: []domain.ScreeningResult{
		{ID: "low", OverallScore: 40},
		{ID: "high", OverallScore: 92},
		{ID: "mid", OverallScore: 71},
	}}
	svc := NewService(store, &fakeSender{}, &fakeNotifier{}, nil)

	if err := svc.Refresh(context.Background(), Foreground); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	snap := svc.Snapshot()
	got := []string{snap.Results[0].ID, snap.Results[1].ID, snap.Results[2].ID}
	want := []string{"high", "mid", "low"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order: got %v, want %v", got, want)
		}
	}
}

func TestRefreshFailureKeepsPreviousResults(t *testing.T) {
	store := &fakeStore{results: []domain.ScreeningResult{{ID: "a", OverallScore: 80}}}
	notifier := &fakeNotifier{}
	svc := NewService(store, &fakeSender{}, notifier, nil)

	if err := svc.Refresh(context.Background(), Foreground); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	store.err = errors.New("store down")
	if err := svc.Refresh(context.Background(), Foreground); err == nil {
		t.Fatalf("expected refresh failure")
	}
	snap := svc.Snapshot()
	if len(snap.Results) != 1 || snap.Results[0].ID != "a" {
		t.Fatalf("previous results must survive: %#v", snap.Results)
	}
	if snap.Loading {
		t.Fatalf("loading flag must clear on failure")
	}
	last := notifier.errors[len(notifier.errors)-1]
	if last != "Unable to load candidates. Please try again later." {
		t.Fatalf("error copy: %q", last)
	}
}

func TestSnapshotStats(t *testing.T) {
	store := &fakeStore{results: []domain.ScreeningResult{
		{ID: "1", OverallScore: 90, Decision: domain.DecisionShortlisted},
		{ID: "2", OverallScore: 60, Decision: domain.DecisionKIV},
		{ID: "3", OverallScore: 30, Decision: domain.DecisionRejected},
		{ID: "4", OverallScore: 50},
	}}
	svc := NewService(store, &fakeSender{}, &fakeNotifier{}, nil)
	if err := svc.Refresh(context.Background(), Foreground); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	stats := svc.Snapshot().Stats
	if stats.TotalReviewed != 4 || stats.Shortlisted != 1 || stats.KIV != 1 || stats.Rejected != 1 || stats.Pending != 1 {
		t.Fatalf("stats: %+v", stats)
	}
	if stats.AverageScore != 58 {
		t.Fatalf("average: got %d, want 58", stats.AverageScore)
	}
}

func TestDecisionLabel(t *testing.T) {
	tests := []struct {
		in   domain.Decision
		want string
	}{
		{domain.DecisionShortlisted, "Shortlisted"},
		{domain.DecisionKIV, "Kiv"},
		{domain.DecisionRejected, "Rejected"},
		{"", "Pending Review"},
	}
	for _, tt := range tests {
		if got := DecisionLabel(tt.in); got != tt.want {
			t.Fatalf("DecisionLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
