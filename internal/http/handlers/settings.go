package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"hrserver/internal/domain"
)

type settingsResponse struct {
	CompanyName          string `json:"company_name"`
	CompanyLogo          string `json:"company_logo,omitempty"`
	LinkedInIntegration  bool   `json:"linkedin_integration"`
	InstagramIntegration bool   `json:"instagram_integration"`
	Theme                string `json:"theme"`
}

func (a *App) SettingsGet(w http.ResponseWriter, r *http.Request) {
	cs, err := a.Settings.Get(r.Context(), a.currentUserID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// First visit: defaults, nothing persisted yet.
			a.json(w, http.StatusOK, settingsResponse{Theme: "light"})
			return
		}
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, settingsResponse{
		CompanyName:          cs.CompanyName,
		CompanyLogo:          cs.CompanyLogo,
		LinkedInIntegration:  cs.LinkedInIntegration,
		InstagramIntegration: cs.InstagramIntegration,
		Theme:                cs.Theme,
	})
}

func (a *App) SettingsUpsert(w http.ResponseWriter, r *http.Request) {
	var req settingsResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Theme == "" {
		req.Theme = "light"
	}
	cs := domain.CompanySettings{
		ID:                   uuid.NewString(),
		UserID:               a.currentUserID(r),
		CompanyName:          req.CompanyName,
		CompanyLogo:          req.CompanyLogo,
		LinkedInIntegration:  req.LinkedInIntegration,
		InstagramIntegration: req.InstagramIntegration,
		Theme:                req.Theme,
	}
	if err := a.Settings.Upsert(r.Context(), cs); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, req)
}

func (a *App) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	if a.Analytics == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "analytics database not configured")
		return
	}
	userID := a.currentUserID(r)
	summary, err := a.Analytics.Summary(r.Context(), userID)
	if err != nil {
		a.fail(w, err)
		return
	}
	departments, err := a.Analytics.DepartmentHeadcount(r.Context(), userID)
	if err != nil {
		a.fail(w, err)
		return
	}
	depts := make([]map[string]any, 0, len(departments))
	for _, d := range departments {
		depts = append(depts, map[string]any{"department": d.Department, "count": d.Count})
	}
	a.json(w, http.StatusOK, map[string]any{
		"active_jobs":         summary.ActiveJobs,
		"total_employees":     summary.TotalEmployees,
		"avg_performance":     summary.AvgPerformance,
		"attendance_rate":     summary.AttendanceRate,
		"payroll_paid_ytd":    summary.PayrollPaidYTD,
		"payroll_pending_ytd": summary.PayrollPendingYTD,
		"shortlisted":         summary.Shortlisted,
		"screening_pending":   summary.ScreeningPending,
		"departments":         depts,
	})
}

func (a *App) Notifications(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"items": a.Feed.Recent()})
}
