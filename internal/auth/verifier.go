package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Identity is the result of verifying a bearer credential.
type Identity struct {
	Email string `json:"email"`
}

// ErrInvalidToken indicates the credential was rejected by the identity provider.
var ErrInvalidToken = errors.New("invalid or expired token")

// Verifier validates a bearer token and yields the authenticated identity.
// Injected into request handling so route logic never knows which identity
// provider backs it.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// RESTVerifier verifies tokens against an identity provider's token-info
// endpoint over HTTP.
type RESTVerifier struct {
	client    *http.Client
	verifyURL string
}

// NewRESTVerifier returns a verifier for the given token-info endpoint.
func NewRESTVerifier(verifyURL string) *RESTVerifier {
	return &RESTVerifier{
		client:    &http.Client{Timeout: 10 * time.Second},
		verifyURL: verifyURL,
	}
}

// Verify sends the token as a bearer credential and decodes the identity.
func (v *RESTVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.verifyURL, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := v.client.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var id Identity
		if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
			return Identity{}, fmt.Errorf("decode identity: %w", err)
		}
		if id.Email == "" {
			return Identity{}, ErrInvalidToken
		}
		return id, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrInvalidToken
	default:
		return Identity{}, fmt.Errorf("verify token: unexpected status %d", resp.StatusCode)
	}
}
