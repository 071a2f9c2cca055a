// Package handlers exposes the dashboard operations over HTTP. Handlers stay
// thin: decode, delegate to a service, encode.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"hrserver/internal/adapter/repo"
	"hrserver/internal/domain"
	"hrserver/internal/identity"
	"hrserver/internal/jobs"
	"hrserver/internal/middleware"
	"hrserver/internal/notify"
	"hrserver/internal/screening"
	"hrserver/internal/store"
	"hrserver/internal/webhook"
)

type App struct {
	Identity   *identity.Service
	Jobs       *jobs.Registry
	Screening  *screening.Service
	Employees  *store.EmployeeStore
	Attendance *store.AttendanceStore
	Payroll    *store.PayrollStore
	Interviews *store.InterviewStore
	Settings   *store.SettingsStore
	Analytics  *repo.AnalyticsRepository
	Feed       *notify.Feed
	Logger     zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.json(w, code, map[string]string{"error": kind, "message": message})
}

// fail maps service errors onto HTTP responses.
func (a *App) fail(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		a.error(w, http.StatusBadRequest, "validation", ve.Message)
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, identity.ErrConfirmationRequired):
		a.error(w, http.StatusAccepted, "confirmation_required", err.Error())
	case errors.Is(err, webhook.ErrTimedOut):
		a.error(w, http.StatusGatewayTimeout, "webhook_timeout", err.Error())
	default:
		var re *webhook.RemoteError
		if errors.As(err, &re) {
			a.error(w, http.StatusBadGateway, "webhook_failed", re.Message)
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
