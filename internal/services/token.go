package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/trackport/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultEarlyExpiry is how long before its stated expiry a token is renewed.
const DefaultEarlyExpiry = 60 * time.Second

// TokenCache holds a client-credentials bearer token and renews it shortly before it expires.
type TokenCache struct {
	config      *clientcredentials.Config
	httpClient  *http.Client
	earlyExpiry time.Duration
	now         func() time.Time

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenCache creates a cache that exchanges clientID and clientSecret at tokenURL.
// A nil client uses [http.DefaultClient].
func NewTokenCache(clientID, clientSecret, tokenURL string, client *http.Client) (*TokenCache, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TokenCache{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient:  client,
		earlyExpiry: DefaultEarlyExpiry,
		now:         time.Now,
	}, nil
}

// Token returns a bearer token valid for at least the early-expiry margin,
// exchanging credentials when the cached one is missing or about to lapse.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid() {
		return c.token.AccessToken, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.config.Token(ctx)
	if err != nil {
		c.token = nil
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	c.token = tok
	return tok.AccessToken, nil
}

// Invalidate drops the cached token so the next call to [TokenCache.Token] re-authenticates.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = nil
}

// valid must be called with mu held. Tokens without an expiry never lapse.
func (c *TokenCache) valid() bool {
	if c.token == nil || c.token.AccessToken == "" {
		return false
	}
	if c.token.Expiry.IsZero() {
		return true
	}
	return c.now().Before(c.token.Expiry.Add(-c.earlyExpiry))
}
