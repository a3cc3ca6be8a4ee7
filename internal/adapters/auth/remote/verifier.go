// Package remote verifica bearer tokens contra el servicio de identidad
// (API compatible con GET /auth/v1/user).
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vetadmin/internal/platform/httpclient"
	"vetadmin/internal/ports/auth"
)

var (
	ErrNotConfigured = errors.New("identity service not configured")
	ErrTokenEmpty    = errors.New("token is empty")
	ErrUnauthorized  = errors.New("identity service: unauthorized")
	ErrUpstream      = errors.New("identity service: upstream error")
)

const userPath = "/auth/v1/user"

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// Transport opcional (tests, tracing).
	Transport http.RoundTripper
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	client *httpclient.Client
	apiKey string
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	c, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout, cfg.Transport)
	if err != nil {
		return nil, err
	}
	return &Verifier{client: c, apiKey: strings.TrimSpace(cfg.APIKey)}, nil
}

type userResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	headers := map[string]string{"Authorization": "Bearer " + token}
	if v.apiKey != "" {
		headers["apikey"] = v.apiKey
	}

	var out userResponse
	if err := v.client.DoJSON(ctx, http.MethodGet, userPath, headers, nil, &out); err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) && he.Unauthorized() {
			return auth.Claims{}, ErrUnauthorized
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user id", ErrUpstream)
	}

	role := strings.TrimSpace(out.AppMetadata.Role)
	if role == "" {
		role = strings.TrimSpace(out.Role)
	}

	return auth.Claims{
		UserID: out.ID,
		Email:  strings.TrimSpace(out.Email),
		Role:   role,
	}, nil
}
