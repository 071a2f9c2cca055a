package store

import (
	"context"
	"encoding/json"
	"time"

	"hrserver/internal/domain"
)

type settingsRow struct {
	ID                   string `json:"id"`
	UserID               string `json:"user_id"`
	CompanyName          string `json:"company_name"`
	CompanyLogo          string `json:"company_logo"`
	LinkedInIntegration  bool   `json:"linkedin_integration"`
	InstagramIntegration bool   `json:"instagram_integration"`
	Theme                string `json:"theme"`
}

// SettingsStore reads and writes the per-user company_settings row.
type SettingsStore struct {
	c *Client
}

func NewSettingsStore(c *Client) *SettingsStore {
	return &SettingsStore{c: c}
}

// Get returns the user's settings row, or ErrNotFound when none exists yet.
func (s *SettingsStore) Get(ctx context.Context, userID string) (*domain.CompanySettings, error) {
	data, _, err := s.c.sb.From("company_settings").
		Select("*", "exact", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return nil, remoteErr("get settings", err)
	}
	var rows []settingsRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, remoteErr("decode settings", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNotFound
	}
	r := rows[0]
	return &domain.CompanySettings{
		ID:                   r.ID,
		UserID:               r.UserID,
		CompanyName:          r.CompanyName,
		CompanyLogo:          r.CompanyLogo,
		LinkedInIntegration:  r.LinkedInIntegration,
		InstagramIntegration: r.InstagramIntegration,
		Theme:                r.Theme,
	}, nil
}

// Upsert writes the user's settings row, inserting or replacing on user_id.
func (s *SettingsStore) Upsert(ctx context.Context, cs domain.CompanySettings) error {
	row := settingsRow{
		ID:                   cs.ID,
		UserID:               cs.UserID,
		CompanyName:          cs.CompanyName,
		CompanyLogo:          cs.CompanyLogo,
		LinkedInIntegration:  cs.LinkedInIntegration,
		InstagramIntegration: cs.InstagramIntegration,
		Theme:                cs.Theme,
	}
	if _, _, err := s.c.sb.From("company_settings").Insert(row, true, "user_id", "minimal", "").Execute(); err != nil {
		return remoteErr("upsert settings", err)
	}
	return nil
}

type profileRow struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileStore keeps the profiles table in sync with the identity provider.
type ProfileStore struct {
	c *Client
}

func NewProfileStore(c *Client) *ProfileStore {
	return &ProfileStore{c: c}
}

// UpsertProfile inserts or refreshes the row keyed by the identity subject.
func (s *ProfileStore) UpsertProfile(ctx context.Context, p domain.Profile) error {
	row := profileRow{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		UpdatedAt: time.Now().UTC(),
	}
	if _, _, err := s.c.sb.From("profiles").Insert(row, true, "id", "minimal", "").Execute(); err != nil {
		return remoteErr("upsert profile", err)
	}
	return nil
}
