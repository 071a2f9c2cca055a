package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrserver/internal/banner"
	"hrserver/internal/domain"
	"hrserver/internal/jobs"
)

// maxBannerUpload bounds multipart banner uploads.
const maxBannerUpload = 8 << 20

type jobResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Department     string    `json:"department,omitempty"`
	Location       string    `json:"location,omitempty"`
	EmploymentType string    `json:"employment_type,omitempty"`
	SalaryRange    string    `json:"salary_range,omitempty"`
	HasBanner      bool      `json:"has_banner"`
	ShareStatus    string    `json:"share_status"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func (a *App) jobJSON(j domain.Job, svc *jobs.Service) jobResponse {
	return jobResponse{
		ID:             j.ID,
		Title:          j.Title,
		Description:    j.Description,
		Department:     j.Department,
		Location:       j.Location,
		EmploymentType: j.EmploymentType,
		SalaryRange:    j.SalaryRange,
		HasBanner:      j.HasBanner(),
		ShareStatus:    string(svc.ShareStatus(j.ID)),
		Status:         string(j.Status),
		CreatedAt:      j.CreatedAt,
	}
}

func (a *App) JobsList(w http.ResponseWriter, r *http.Request) {
	svc := a.Jobs.ForUser(a.currentUserID(r))
	snap := svc.Snapshot()
	if len(snap.Items) == 0 && !snap.Loading {
		if err := svc.Refresh(r.Context(), jobs.Foreground); err != nil {
			a.fail(w, err)
			return
		}
		snap = svc.Snapshot()
	}
	items := make([]jobResponse, 0, len(snap.Items))
	for _, j := range snap.Items {
		items = append(items, a.jobJSON(j, svc))
	}
	a.json(w, http.StatusOK, map[string]any{
		"items":      items,
		"loading":    snap.Loading,
		"refreshing": snap.Refreshing,
	})
}

func (a *App) JobsCreate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCreateJob(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	svc := a.Jobs.ForUser(a.currentUserID(r))
	job, err := svc.CreateJob(r.Context(), *in)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, a.jobJSON(*job, svc))
}

func decodeCreateJob(r *http.Request) (*jobs.CreateJobInput, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBannerUpload); err != nil {
			return nil, err
		}
		in := jobs.CreateJobInput{
			Title:          r.FormValue("title"),
			Description:    r.FormValue("description"),
			Department:     r.FormValue("department"),
			Location:       r.FormValue("location"),
			EmploymentType: r.FormValue("employment_type"),
			SalaryRange:    r.FormValue("salary_range"),
			AutoShare:      r.FormValue("auto_share") == "true",
		}
		file, header, err := r.FormFile("banner")
		if err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, maxBannerUpload))
			if err != nil {
				return nil, err
			}
			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				contentType = http.DetectContentType(data)
			}
			in.Banner = &banner.Image{Data: data, ContentType: contentType}
		}
		return &in, nil
	}

	var req struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Department     string `json:"department"`
		Location       string `json:"location"`
		EmploymentType string `json:"employment_type"`
		SalaryRange    string `json:"salary_range"`
		AutoShare      bool   `json:"auto_share"`
		BannerDataURL  string `json:"banner_data_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	in := jobs.CreateJobInput{
		Title:          req.Title,
		Description:    req.Description,
		Department:     req.Department,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		SalaryRange:    req.SalaryRange,
		AutoShare:      req.AutoShare,
	}
	if req.BannerDataURL != "" {
		img, err := banner.Decode(req.BannerDataURL)
		if err != nil {
			return nil, err
		}
		in.Banner = &img
	}
	return &in, nil
}

func (a *App) JobsShare(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	svc := a.Jobs.ForUser(a.currentUserID(r))
	if err := svc.Share(r.Context(), jobID); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"id":           jobID,
		"share_status": string(svc.ShareStatus(jobID)),
	})
}

func (a *App) JobsRefresh(w http.ResponseWriter, r *http.Request) {
	mode := jobs.Foreground
	switch r.URL.Query().Get("mode") {
	case "background":
		mode = jobs.Background
	case "silent":
		mode = jobs.BackgroundSilent
	}
	svc := a.Jobs.ForUser(a.currentUserID(r))
	if err := svc.Refresh(r.Context(), mode); err != nil {
		a.fail(w, err)
		return
	}
	snap := svc.Snapshot()
	a.json(w, http.StatusOK, map[string]any{"count": len(snap.Items)})
}
