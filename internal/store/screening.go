package store

import (
	"context"
	"encoding/json"
	"strings"

	"hrserver/internal/domain"
)

type screeningRow struct {
	ID              string  `json:"id"`
	FullName        *string `json:"full_name"`
	Email           *string `json:"email"`
	PhoneNumber     *string `json:"phone_number"`
	Subject         *string `json:"subject"`
	SkillsScore     *int    `json:"skills_score"`
	ExperienceScore *int    `json:"experience_score"`
	EducationScore  *int    `json:"education_score"`
	OverallScore    *int    `json:"overall_score"`
	ApplicantSkill  *string `json:"applicant_skill"`
	ReasonSummary   *string `json:"reason_summary"`
	Decision        *string `json:"decision"`
	Status          *string `json:"status"`
	ResumeURL       *string `json:"resume_drive_url"`
	ResumeFileID    *string `json:"resume_drive_file_id"`
	ResumeFilename  *string `json:"resume_filename"`
}

// ScreeningStore reads the rows the resume screening workflow writes back.
// The table is populated externally; this side only reads it.
type ScreeningStore struct {
	c *Client
}

// NewScreeningStore constructs the store.
func NewScreeningStore(c *Client) *ScreeningStore {
	return &ScreeningStore{c: c}
}

// ListResults returns every screening result.
func (s *ScreeningStore) ListResults(ctx context.Context) ([]domain.ScreeningResult, error) {
	data, _, err := s.c.sb.From("resume_screening_results").
		Select("*", "exact", false).
		Execute()
	if err != nil {
		return nil, remoteErr("list screening results", err)
	}
	var rows []screeningRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, remoteErr("decode screening results", err)
	}
	results := make([]domain.ScreeningResult, 0, len(rows))
	for _, r := range rows {
		results = append(results, r.toDomain())
	}
	return results, nil
}

func (r screeningRow) toDomain() domain.ScreeningResult {
	return domain.ScreeningResult{
		ID:              r.ID,
		FullName:        deref(r.FullName),
		Email:           deref(r.Email),
		PhoneNumber:     deref(r.PhoneNumber),
		Subject:         deref(r.Subject),
		SkillsScore:     derefInt(r.SkillsScore),
		ExperienceScore: derefInt(r.ExperienceScore),
		EducationScore:  derefInt(r.EducationScore),
		OverallScore:    derefInt(r.OverallScore),
		ApplicantSkill:  deref(r.ApplicantSkill),
		ReasonSummary:   deref(r.ReasonSummary),
		Decision:        domain.Decision(strings.ToLower(deref(r.Decision))),
		Status:          deref(r.Status),
		ResumeURL:       deref(r.ResumeURL),
		ResumeFileID:    deref(r.ResumeFileID),
		ResumeFilename:  deref(r.ResumeFilename),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
