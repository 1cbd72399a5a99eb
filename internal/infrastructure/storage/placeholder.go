package storage

import (
	"context"
	"net/url"
	"strings"
	"time"

	identityapp "github.com/edusaas/backend/internal/application/identity"
)

var _ identityapp.LogoStorage = PlaceholderLogoStore{}

// PlaceholderLogoStore is used when no bucket is configured. Its URLs point
// nowhere, but branding flows still run end to end in development.
type PlaceholderLogoStore struct {
	Host string
}

func NewPlaceholderLogoStore() PlaceholderLogoStore {
	return PlaceholderLogoStore{Host: "storage.example.com"}
}

func (p PlaceholderLogoStore) GenerateUploadURL(_ context.Context, storageKey, contentType string, ttl time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errEmptyKey
	}
	expiresAt := time.Now().Add(ttl).UTC()
	u := url.URL{
		Scheme: "https",
		Host:   p.Host,
		Path:   "/upload/" + strings.TrimLeft(storageKey, "/"),
		RawQuery: url.Values{
			"content_type": {contentType},
			"expires":      {expiresAt.Format(time.RFC3339)},
		}.Encode(),
	}
	return u.String(), expiresAt, nil
}

func (p PlaceholderLogoStore) PublicURL(storageKey string) string {
	return (&url.URL{Scheme: "https", Host: p.Host, Path: "/" + strings.TrimLeft(storageKey, "/")}).String()
}
