package jobs

import (
	"context"
	"errors"
	"testing"

	"hrserver/internal/banner"
	"hrserver/internal/domain"
	"hrserver/internal/notify"
	"hrserver/internal/webhook"
)

type fakeStore struct {
	items     []domain.Job
	listErr   error
	listCalls int
	listHook  func()
	inserted  []domain.Job
	insertErr error
}

func (f *fakeStore) ListByUser(ctx context.Context, userID string) ([]domain.Job, error) {
	f.listCalls++
	if f.listHook != nil {
		f.listHook()
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Job, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeStore) Insert(ctx context.Context, job domain.Job) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, job)
	return nil
}

type fakeSender struct {
	err      error
	payloads []webhook.Payload
}

func (f *fakeSender) Send(ctx context.Context, payload webhook.Payload) error {
	f.payloads = append(f.payloads, payload)
	return f.err
}

type fakeNotifier struct {
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(message string) { f.successes = append(f.successes, message) }
func (f *fakeNotifier) Error(message string)   { f.errors = append(f.errors, message) }

var _ notify.Notifier = (*fakeNotifier)(nil)

func newTestService(store *fakeStore, hook *fakeSender, notifier *fakeNotifier) *Service {
	return NewService(Config{
		UserID:   "user-1",
		Store:    store,
		Webhook:  hook,
		Notifier: notifier,
	})
}

func testBanner() *banner.Image {
	return &banner.Image{Data: []byte{0x89, 0x50, 0x4e, 0x47}, ContentType: "image/png"}
}

func TestCreateJobWithoutAutoShareSkipsWebhook(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, hook, notifier)

	job, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "Backend Engineer"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(hook.payloads) != 0 {
		t.Fatalf("expected no webhook calls, got %d", len(hook.payloads))
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}
	if job.Status != domain.JobStatusActive {
		t.Fatalf("status: %v", job.Status)
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Job posted successfully!" {
		t.Fatalf("success notifications: %#v", notifier.successes)
	}
	if store.listCalls != 1 {
		t.Fatalf("expected refresh after create, got %d list calls", store.listCalls)
	}
}

func TestCreateJobRequiresTitle(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{}
	svc := newTestService(store, hook, &fakeNotifier{})

	_, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "   "})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(hook.payloads) != 0 || len(store.inserted) != 0 {
		t.Fatalf("nothing should run on validation failure")
	}
}

func TestCreateJobAutoShareRequiresBanner(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{}
	svc := newTestService(store, hook, &fakeNotifier{})

	_, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "Designer", AutoShare: true})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(hook.payloads) != 0 || len(store.inserted) != 0 {
		t.Fatalf("validation must run before any side effect")
	}
}

func TestCreateJobAutoShareWebhookFailureBlocksInsert(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{err: errors.New("workflow rejected")}
	notifier := &fakeNotifier{}
	svc := newTestService(store, hook, notifier)

	_, err := svc.CreateJob(context.Background(), CreateJobInput{
		Title:     "Designer",
		AutoShare: true,
		Banner:    testBanner(),
	})
	if err == nil {
		t.Fatalf("expected error from webhook")
	}
	if len(store.inserted) != 0 {
		t.Fatalf("insert must not happen after a failed auto-share")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected exactly one error notification, got %#v", notifier.errors)
	}
	if store.listCalls != 0 {
		t.Fatalf("no refresh expected on failure")
	}
}

func TestCreateJobAutoShareSendsThenInserts(t *testing.T) {
	store := &fakeStore{}
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, hook, notifier)

	job, err := svc.CreateJob(context.Background(), CreateJobInput{
		Title:     "Backend Engineer",
		AutoShare: true,
		Banner:    testBanner(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(hook.payloads) != 1 {
		t.Fatalf("expected 1 webhook call, got %d", len(hook.payloads))
	}
	form, ok := hook.payloads[0].(webhook.Form)
	if !ok {
		t.Fatalf("expected multipart payload, got %T", hook.payloads[0])
	}
	if form.Fields["job_title"] != "Backend Engineer" {
		t.Fatalf("payload fields: %#v", form.Fields)
	}
	if form.Attachment == nil || form.Attachment.Filename != "Backend Engineer.png" {
		t.Fatalf("attachment: %#v", form.Attachment)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 insert, got %d", len(store.inserted))
	}
	if !job.HasBanner() || !banner.IsInline(job.BannerRef) {
		t.Fatalf("banner ref not persisted inline: %q", job.BannerRef)
	}
}

func TestCreateJobInsertFailureNotifies(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("row store down")}
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc := newTestService(store, hook, notifier)

	_, err := svc.CreateJob(context.Background(), CreateJobInput{Title: "PM"})
	if err == nil {
		t.Fatalf("expected insert error")
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected one error notification, got %#v", notifier.errors)
	}
	if len(notifier.successes) != 0 {
		t.Fatalf("no success expected: %#v", notifier.successes)
	}
}

func seededService(t *testing.T, job domain.Job, hook *fakeSender, notifier *fakeNotifier) (*Service, *fakeStore) {
	t.Helper()
	store := &fakeStore{items: []domain.Job{job}}
	svc := newTestService(store, hook, notifier)
	if err := svc.Refresh(context.Background(), Foreground); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	return svc, store
}

func bannerJob() domain.Job {
	return domain.Job{
		ID:        "job-1",
		UserID:    "user-1",
		Title:     "Backend Engineer",
		BannerRef: banner.Encode(*testBanner()),
		Status:    domain.JobStatusActive,
	}
}

func TestShareHappyPath(t *testing.T) {
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc, _ := seededService(t, bannerJob(), hook, notifier)

	if err := svc.Share(context.Background(), "job-1"); err != nil {
		t.Fatalf("share: %v", err)
	}
	if got := svc.ShareStatus("job-1"); got != domain.ShareShared {
		t.Fatalf("status after share: %v", got)
	}
	if len(hook.payloads) != 1 {
		t.Fatalf("expected 1 webhook call, got %d", len(hook.payloads))
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Job posting shared successfully!" {
		t.Fatalf("success notifications: %#v", notifier.successes)
	}
}

func TestShareAfterSuccessIsNoOp(t *testing.T) {
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc, _ := seededService(t, bannerJob(), hook, notifier)

	if err := svc.Share(context.Background(), "job-1"); err != nil {
		t.Fatalf("first share: %v", err)
	}
	if err := svc.Share(context.Background(), "job-1"); err != nil {
		t.Fatalf("second share: %v", err)
	}
	if len(hook.payloads) != 1 {
		t.Fatalf("second share must not call the webhook, got %d calls", len(hook.payloads))
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("one notification per event: %#v", notifier.successes)
	}
}

func TestShareFailureReturnsToIdleAndRetries(t *testing.T) {
	hook := &fakeSender{err: errors.New("endpoint unreachable")}
	notifier := &fakeNotifier{}
	svc, _ := seededService(t, bannerJob(), hook, notifier)

	if err := svc.Share(context.Background(), "job-1"); err == nil {
		t.Fatalf("expected share failure")
	}
	if got := svc.ShareStatus("job-1"); got != domain.ShareIdle {
		t.Fatalf("status after failure: %v", got)
	}
	if len(notifier.errors) != 1 {
		t.Fatalf("expected one error notification, got %#v", notifier.errors)
	}

	hook.err = nil
	if err := svc.Share(context.Background(), "job-1"); err != nil {
		t.Fatalf("retry share: %v", err)
	}
	if got := svc.ShareStatus("job-1"); got != domain.ShareShared {
		t.Fatalf("status after retry: %v", got)
	}
}

func TestShareUnknownJob(t *testing.T) {
	hook := &fakeSender{}
	svc, _ := seededService(t, bannerJob(), hook, &fakeNotifier{})

	err := svc.Share(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(hook.payloads) != 0 {
		t.Fatalf("no webhook call expected")
	}
	if got := svc.ShareStatus("missing"); got != domain.ShareIdle {
		t.Fatalf("status: %v", got)
	}
}

func TestShareWithoutBannerNotifies(t *testing.T) {
	job := bannerJob()
	job.BannerRef = ""
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc, _ := seededService(t, job, hook, notifier)

	if err := svc.Share(context.Background(), "job-1"); err == nil {
		t.Fatalf("expected error for bannerless job")
	}
	if len(hook.payloads) != 0 {
		t.Fatalf("no webhook call expected")
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "This job posting has no banner image to share" {
		t.Fatalf("error notifications: %#v", notifier.errors)
	}
	if got := svc.ShareStatus("job-1"); got != domain.ShareIdle {
		t.Fatalf("status: %v", got)
	}
}

func TestRefreshFailureKeepsStaleListAndTracker(t *testing.T) {
	hook := &fakeSender{}
	notifier := &fakeNotifier{}
	svc, store := seededService(t, bannerJob(), hook, notifier)

	if err := svc.Share(context.Background(), "job-1"); err != nil {
		t.Fatalf("share: %v", err)
	}

	store.listErr = errors.New("store unavailable")
	if err := svc.Refresh(context.Background(), Foreground); err == nil {
		t.Fatalf("expected refresh failure")
	}
	snap := svc.Snapshot()
	if len(snap.Items) != 1 {
		t.Fatalf("stale list must be kept, got %d items", len(snap.Items))
	}
	if got := svc.ShareStatus("job-1"); got != domain.ShareShared {
		t.Fatalf("tracker must survive a failed refresh, got %v", got)
	}
	last := notifier.errors[len(notifier.errors)-1]
	if last != "Unable to load job postings. Please try again later." {
		t.Fatalf("error copy: %q", last)
	}
}

func TestRefreshSuccessResetsTracker(t *testing.T) {
	hook := &fakeSender{}
	svc, _ := seededService(t, bannerJob(), hook, &fakeNotifier{})

	if err := svc.Share(context.Background(), "job-1"); err != nil {
		t.Fatalf("share: %v", err)
	}
	if err := svc.Refresh(context.Background(), Foreground); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := svc.ShareStatus("job-1"); got != domain.ShareIdle {
		t.Fatalf("tracker must reset on successful refresh, got %v", got)
	}
}

func TestRefreshModeFlags(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeSender{}, &fakeNotifier{})

	var midLoading, midRefreshing bool
	store.listHook = func() {
		snap := svc.Snapshot()
		midLoading = snap.Loading
		midRefreshing = snap.Refreshing
	}

	if err := svc.Refresh(context.Background(), Foreground); err != nil {
		t.Fatalf("foreground refresh: %v", err)
	}
	if !midLoading || midRefreshing {
		t.Fatalf("foreground flags during fetch: loading=%v refreshing=%v", midLoading, midRefreshing)
	}

	if err := svc.Refresh(context.Background(), Background); err != nil {
		t.Fatalf("background refresh: %v", err)
	}
	if midLoading || !midRefreshing {
		t.Fatalf("background flags during fetch: loading=%v refreshing=%v", midLoading, midRefreshing)
	}

	if err := svc.Refresh(context.Background(), BackgroundSilent); err != nil {
		t.Fatalf("silent refresh: %v", err)
	}
	if midLoading || midRefreshing {
		t.Fatalf("silent refresh must not touch flags: loading=%v refreshing=%v", midLoading, midRefreshing)
	}

	snap := svc.Snapshot()
	if snap.Loading || snap.Refreshing {
		t.Fatalf("flags must clear after refresh: %+v", snap)
	}
}

func TestRegistryIsolatesUsers(t *testing.T) {
	store := &fakeStore{}
	reg := NewRegistry(store, &fakeSender{}, nil, &fakeNotifier{}, nil)

	a := reg.ForUser("user-a")
	b := reg.ForUser("user-b")
	if a == b {
		t.Fatalf("users must not share a service")
	}
	if again := reg.ForUser("user-a"); again != a {
		t.Fatalf("same user must get the same service")
	}

	a.tracker.Begin("job-1")
	if got := b.ShareStatus("job-1"); got != domain.ShareIdle {
		t.Fatalf("tracker leaked across users: %v", got)
	}
}
