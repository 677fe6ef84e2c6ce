// Package authgate verifies bearer tokens against an external auth service
// and maps them to a user identity.
package authgate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrUnauthorized = errors.New("token rejected")

type Config struct {
	URL     string        `split_words:"true" required:"true"`
	Token   string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

// Identity is the verified principal behind a bearer token.
type Identity struct {
	UserID string `json:"user_id"`
}

type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("authgate url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		serviceToken: strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// Verify exchanges a user bearer token for its identity. A 401/403 from the
// auth service maps to ErrUnauthorized; other failures surface as-is.
func (c *Client) Verify(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, fmt.Errorf("%w: empty token", ErrUnauthorized)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/verify", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if c.serviceToken != "" {
		req.Header.Set("X-Service-Token", c.serviceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("authgate: verify request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return Identity{}, ErrUnauthorized
	default:
		return Identity{}, fmt.Errorf("authgate: unexpected status %d", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return Identity{}, fmt.Errorf("authgate: decode identity: %w", err)
	}
	if strings.TrimSpace(identity.UserID) == "" {
		return Identity{}, fmt.Errorf("%w: identity without user id", ErrUnauthorized)
	}

	return identity, nil
}

// Static verifies tokens against a fixed token->user table. Local development
// only; configured via AUTHGATE_STATIC_TOKENS as "token1=user1,token2=user2".
type Static struct {
	tokens map[string]string
}

func NewStatic(spec string) (*Static, error) {
	tokens := make(map[string]string)
	for _, pair := range strings.Split(spec, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, user, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(token) == "" || strings.TrimSpace(user) == "" {
			return nil, fmt.Errorf("invalid static token entry %q", pair)
		}
		tokens[strings.TrimSpace(token)] = strings.TrimSpace(user)
	}
	if len(tokens) == 0 {
		return nil, errors.New("no static tokens configured")
	}
	return &Static{tokens: tokens}, nil
}

func (s *Static) Verify(_ context.Context, token string) (Identity, error) {
	user, ok := s.tokens[strings.TrimSpace(token)]
	if !ok {
		return Identity{}, ErrUnauthorized
	}
	return Identity{UserID: user}, nil
}
