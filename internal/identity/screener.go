package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Screener checks a BVN against an external blacklist at signup. The check
// is informational only: its outcome is logged and never blocks
// registration, matching the upstream provider's advisory role.
type Screener interface {
	Screen(ctx context.Context, bvn string) error
}

// NoopScreener skips screening entirely.
type NoopScreener struct{}

func (NoopScreener) Screen(context.Context, string) error { return nil }

// HTTPScreener queries the karma blacklist endpoint of the verification
// provider.
type HTTPScreener struct {
	baseURL string
	secret  string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPScreener builds a provider-backed screener.
func NewHTTPScreener(baseURL, secret string, logger *slog.Logger) *HTTPScreener {
	return &HTTPScreener{
		baseURL: baseURL,
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Screen looks up the BVN and logs the verdict.
func (s *HTTPScreener) Screen(ctx context.Context, bvn string) error {
	endpoint := fmt.Sprintf("%s/verification/karma/%s", s.baseURL, url.PathEscape(bvn))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.secret)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("karma screening unavailable", "error", err)
		return nil
	}
	defer resp.Body.Close()

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		s.logger.Warn("karma screening response unreadable", "error", err)
		return nil
	}

	s.logger.Info("karma screening result", "status_code", resp.StatusCode, "message", payload["message"])
	return nil
}
