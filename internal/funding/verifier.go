package funding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Verification is the outcome of checking a funding reference with the
// upstream payment provider. Email carries the customer email the provider
// has on record for the payment, which takes precedence over caller input.
type Verification struct {
	Valid     bool
	Reference string
	Email     string
}

// Verifier represents the external capability that vouches for an incoming
// funding reference before any money is credited.
type Verifier interface {
	ValidateReference(ctx context.Context, reference, email string) (Verification, error)
}

// StaticVerifier accepts every reference. Used in tests and development mode.
type StaticVerifier struct{}

// ValidateReference approves the reference and echoes the caller's email.
func (StaticVerifier) ValidateReference(_ context.Context, reference, email string) (Verification, error) {
	return Verification{Valid: true, Reference: reference, Email: email}, nil
}

// HTTPVerifier verifies funding references against the payment provider's
// transaction-verification endpoint.
type HTTPVerifier struct {
	baseURL string
	secret  string
	client  *http.Client
}

// NewHTTPVerifier builds a provider-backed verifier.
func NewHTTPVerifier(baseURL, secret string) *HTTPVerifier {
	return &HTTPVerifier{
		baseURL: baseURL,
		secret:  secret,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// ValidateReference calls the provider and maps its response onto a
// Verification decision.
func (v *HTTPVerifier) ValidateReference(ctx context.Context, reference, email string) (Verification, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", v.baseURL, url.PathEscape(reference))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Verification{}, err
	}
	req.Header.Set("Authorization", "Bearer "+v.secret)

	resp, err := v.client.Do(req)
	if err != nil {
		return Verification{}, fmt.Errorf("verify reference %s: %w", reference, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Status bool `json:"status"`
		Data   struct {
			Status   string `json:"status"`
			Customer struct {
				Email string `json:"email"`
			} `json:"customer"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Verification{}, fmt.Errorf("decode verification response: %w", err)
	}

	verified := Verification{
		Valid:     resp.StatusCode == http.StatusOK && payload.Status && payload.Data.Status == "success",
		Reference: reference,
		Email:     payload.Data.Customer.Email,
	}
	if verified.Email == "" {
		verified.Email = email
	}
	return verified, nil
}
