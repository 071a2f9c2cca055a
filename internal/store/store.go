// Package store adapts the hosted row store (Supabase PostgREST) to the
// typed surfaces the rest of the service consumes. Every query is scoped to
// the owning user's rows where the table carries a user_id column.
package store

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/supabase-community/supabase-go"
)

// Client wraps the shared Supabase client handed to the typed stores.
type Client struct {
	sb     *supabase.Client
	logger zerolog.Logger
}

// New connects to the hosted row store with the project URL and anon key.
func New(projectURL, anonKey string, logger *zerolog.Logger) (*Client, error) {
	sb, err := supabase.NewClient(projectURL, anonKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("store: init client: %w", err)
	}
	l := zerolog.New(io.Discard)
	if logger != nil {
		l = *logger
	}
	return &Client{sb: sb, logger: l}, nil
}

func remoteErr(op string, err error) error {
	return fmt.Errorf("store: %s: %w", op, err)
}
