package recruit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultAccountsURL = "https://accounts.zoho.in/oauth/v2/token"

// tokenSource exchanges a long-lived refresh token for short-lived
// access tokens and caches the result until one minute before expiry.
type tokenSource struct {
	httpClient   *http.Client
	accountsURL  string
	refreshToken string
	clientID     string
	clientSecret string

	mu       sync.Mutex
	cached   string
	expireAt time.Time
	now      func() time.Time
}

func newTokenSource(httpClient *http.Client, accountsURL, refreshToken, clientID, clientSecret string) *tokenSource {
	if accountsURL == "" {
		accountsURL = defaultAccountsURL
	}
	return &tokenSource{
		httpClient:   httpClient,
		accountsURL:  accountsURL,
		refreshToken: refreshToken,
		clientID:     clientID,
		clientSecret: clientSecret,
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Error       string `json:"error"`
}

// Token returns a valid access token, refreshing it when the cached
// one has expired. Callers may race; the exchange runs under the lock
// so only one refresh goes out at a time.
func (t *tokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cached != "" && t.now().Before(t.expireAt) {
		return t.cached, nil
	}

	form := url.Values{}
	form.Set("refresh_token", t.refreshToken)
	form.Set("client_id", t.clientID)
	form.Set("client_secret", t.clientSecret)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.accountsURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("recruit: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("recruit: token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("recruit: read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recruit: token endpoint returned %d: %s", resp.StatusCode, body)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("recruit: decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		if parsed.Error != "" {
			return "", fmt.Errorf("recruit: token exchange failed: %s", parsed.Error)
		}
		return "", fmt.Errorf("recruit: token response missing access_token")
	}

	expiresIn := parsed.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}

	t.cached = parsed.AccessToken
	// Refresh a minute early so in-flight requests never carry a token
	// that expires mid-call
	t.expireAt = t.now().Add(time.Duration(expiresIn)*time.Second - time.Minute)
	return t.cached, nil
}
