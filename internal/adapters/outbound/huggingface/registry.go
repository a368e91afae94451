// Package huggingface looks models up on the HuggingFace Hub API.
package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/primetrain/primetrain/internal/domain"
	"golang.org/x/time/rate"
)

// Registry implements domain.ModelRegistry against the Hub's
// /api/models/{id} endpoint.
type Registry struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	token    string
}

// Option configures a Registry.
type Option func(*Registry)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Registry) { r.client = c }
}

// WithToken sends a bearer token, needed for gated models.
func WithToken(token string) Option {
	return func(r *Registry) { r.token = token }
}

// New creates a Registry. A non-positive ratePerSecond disables limiting.
func New(endpoint string, timeout time.Duration, ratePerSecond float64, opts ...Option) *Registry {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	if timeout <= 0 {
		timeout = domain.DefaultHubTimeout
	}
	r := &Registry{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, 1),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

type modelResponse struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags"`
}

// Lookup never returns an error: transport failures and unexpected
// statuses are reported as ModelUnavailable.
func (r *Registry) Lookup(ctx context.Context, name string) domain.ModelInfo {
	if err := r.limiter.Wait(ctx); err != nil {
		return unavailable(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.modelURL(name), nil)
	if err != nil {
		return unavailable(err)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return unavailable(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var body modelResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&body); err != nil {
			return unavailable(fmt.Errorf("decoding model info: %w", err))
		}
		return domain.ModelInfo{Status: domain.ModelFound, Tags: body.Tags}
	case http.StatusNotFound:
		return r.notFound(resp)
	case http.StatusUnauthorized:
		// The Hub answers 401 for missing repos when unauthenticated. With
		// a token, 401 means the token was rejected unless the Hub says
		// the repo is missing.
		if r.token == "" || resp.Header.Get("X-Error-Code") == "RepoNotFound" {
			return r.notFound(resp)
		}
		return unavailable(fmt.Errorf("token rejected: %s returned %s", r.endpoint, resp.Status))
	}
	return unavailable(fmt.Errorf("unexpected status %s", resp.Status))
}

func (r *Registry) notFound(resp *http.Response) domain.ModelInfo {
	return domain.ModelInfo{
		Status: domain.ModelNotFound,
		Reason: fmt.Sprintf("%s returned %s", r.endpoint, resp.Status),
	}
}

func (r *Registry) modelURL(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return r.endpoint + "/api/models/" + strings.Join(parts, "/")
}

func unavailable(err error) domain.ModelInfo {
	return domain.ModelInfo{Status: domain.ModelUnavailable, Reason: err.Error()}
}

// Offline is a registry that never reaches the network.
type Offline struct{}

func (Offline) Lookup(context.Context, string) domain.ModelInfo {
	return domain.ModelInfo{Status: domain.ModelUnavailable, Reason: "offline mode"}
}

// FromSettings returns the registry selected by hub settings. Offline mode
// never touches the network. token may be empty.
func FromSettings(s domain.Settings, token string) domain.ModelRegistry {
	if s.Offline {
		return Offline{}
	}
	var opts []Option
	if token != "" {
		opts = append(opts, WithToken(token))
	}
	return New(s.Hub.Endpoint, s.Hub.Timeout, s.Hub.RatePerSecond, opts...)
}
