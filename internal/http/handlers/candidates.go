package handlers

import (
	"net/http"

	"hrserver/internal/domain"
	"hrserver/internal/screening"
)

type candidateResponse struct {
	ID              string `json:"id"`
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	Subject         string `json:"subject,omitempty"`
	SkillsScore     int    `json:"skills_score"`
	ExperienceScore int    `json:"experience_score"`
	EducationScore  int    `json:"education_score"`
	OverallScore    int    `json:"overall_score"`
	ApplicantSkill  string `json:"applicant_skill,omitempty"`
	ReasonSummary   string `json:"reason_summary,omitempty"`
	Decision        string `json:"decision"`
	DecisionLabel   string `json:"decision_label"`
	ResumeURL       string `json:"resume_url,omitempty"`
	ResumeFilename  string `json:"resume_filename,omitempty"`
}

func candidateJSON(r domain.ScreeningResult) candidateResponse {
	return candidateResponse{
		ID:              r.ID,
		FullName:        r.FullName,
		Email:           r.Email,
		PhoneNumber:     r.PhoneNumber,
		Subject:         r.Subject,
		SkillsScore:     r.SkillsScore,
		ExperienceScore: r.ExperienceScore,
		EducationScore:  r.EducationScore,
		OverallScore:    r.OverallScore,
		ApplicantSkill:  r.ApplicantSkill,
		ReasonSummary:   r.ReasonSummary,
		Decision:        string(r.Decision),
		DecisionLabel:   screening.DecisionLabel(r.Decision),
		ResumeURL:       r.ResumeURL,
		ResumeFilename:  r.ResumeFilename,
	}
}

func (a *App) CandidatesList(w http.ResponseWriter, r *http.Request) {
	snap := a.Screening.Snapshot()
	if len(snap.Results) == 0 && !snap.Loading {
		if err := a.Screening.Refresh(r.Context(), screening.Foreground); err != nil {
			a.fail(w, err)
			return
		}
		snap = a.Screening.Snapshot()
	}
	items := make([]candidateResponse, 0, len(snap.Results))
	for _, res := range snap.Results {
		items = append(items, candidateJSON(res))
	}
	a.json(w, http.StatusOK, map[string]any{
		"items": items,
		"stats": map[string]int{
			"total_reviewed": snap.Stats.TotalReviewed,
			"average_score":  snap.Stats.AverageScore,
			"shortlisted":    snap.Stats.Shortlisted,
			"kiv":            snap.Stats.KIV,
			"rejected":       snap.Stats.Rejected,
			"pending":        snap.Stats.Pending,
		},
		"loading":    snap.Loading,
		"refreshing": snap.Refreshing,
		"activating": snap.Activating,
	})
}

func (a *App) ScreeningTrigger(w http.ResponseWriter, r *http.Request) {
	if err := a.Screening.Trigger(r.Context()); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]bool{"activating": a.Screening.Snapshot().Activating})
}

func (a *App) ScreeningRescreen(w http.ResponseWriter, r *http.Request) {
	if err := a.Screening.Rescreen(r.Context()); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusAccepted, map[string]bool{"refreshing": a.Screening.Snapshot().Refreshing})
}
