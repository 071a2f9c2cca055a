package jobs

import (
	"sync"

	"github.com/rs/zerolog"

	"hrserver/internal/banner"
	"hrserver/internal/notify"
)

// Registry hands out one Service per user, created lazily on first use, so
// each user's list cache and share tracker stay isolated.
type Registry struct {
	store    Store
	hook     Sender
	banners  *banner.Resolver
	notifier notify.Notifier
	logger   *zerolog.Logger

	mu       sync.Mutex
	services map[string]*Service
}

// NewRegistry constructs the registry with shared collaborators.
func NewRegistry(store Store, hook Sender, banners *banner.Resolver, notifier notify.Notifier, logger *zerolog.Logger) *Registry {
	return &Registry{
		store:    store,
		hook:     hook,
		banners:  banners,
		notifier: notifier,
		logger:   logger,
		services: make(map[string]*Service),
	}
}

// ForUser returns the service owning userID's view.
func (r *Registry) ForUser(userID string) *Service {
	r.mu.Lock()
	defer r.mu.Unlock()
	if svc, ok := r.services[userID]; ok {
		return svc
	}
	svc := NewService(Config{
		UserID:   userID,
		Store:    r.store,
		Webhook:  r.hook,
		Banners:  r.banners,
		Notifier: r.notifier,
		Logger:   r.logger,
	})
	r.services[userID] = svc
	return svc
}
