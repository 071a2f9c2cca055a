// Package geoip resolves the country a request originates from, used to tag
// attendance check-ins for the remote-workforce view.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// ErrUnavailable is returned when no database is configured.
var ErrUnavailable = errors.New("geoip: locator unavailable")

// Locator resolves ISO country codes from client IP addresses.
type Locator interface {
	Country(ip string) (string, error)
	Close() error
}

type maxmindLocator struct {
	reader *geoip2.Reader
}

// Open loads a MaxMind country database. An empty path disables lookups and
// returns a nil Locator, which callers must treat as "no country".
func Open(path string) (Locator, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &maxmindLocator{reader: reader}, nil
}

func (l *maxmindLocator) Country(ip string) (string, error) {
	if l == nil || l.reader == nil {
		return "", ErrUnavailable
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := l.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup: %w", err)
	}
	if record == nil {
		return "", nil
	}
	return record.Country.IsoCode, nil
}

// Close releases the database reader.
func (l *maxmindLocator) Close() error {
	if l == nil || l.reader == nil {
		return nil
	}
	return l.reader.Close()
}
