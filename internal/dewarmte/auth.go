package dewarmte

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ronald-willems/godewarmte/internal/logging"
)

const (
	// DefaultBaseURL is the DeWarmte cloud API base URL
	DefaultBaseURL = "https://api.mydewarmte.com/v1"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second

	// DefaultTokenLifetime is the assumed bearer token lifetime. The vendor
	// does not publish an expiry; tokens have been observed to expire hourly.
	DefaultTokenLifetime = 60 * time.Minute

	// DefaultRefreshBuffer is how long before the assumed expiry a token is
	// refreshed proactively.
	DefaultRefreshBuffer = 60 * time.Second
)

// Auth owns the bearer token lifecycle for the DeWarmte cloud API.
//
// Tokens are refreshed proactively (shortly before the assumed lifetime
// elapses) and reactively (when the request funnel observes a 401 and calls
// MarkExpired). Login failures are reported as a boolean and logged rather
// than returned as errors: the caller's next poll cycle retries anyway, and
// a uniform boolean keeps the 401-retry path in Client.do simple.
type Auth struct {
	email      string
	password   string
	baseURL    string
	httpClient *http.Client

	lifetime time.Duration
	now      func() time.Time

	// mu guards token and issuedAt. It is not held across the login
	// round-trip: two goroutines that both observe a stale token will both
	// log in, and the second simply overwrites the first with an equally
	// valid token.
	mu       sync.Mutex
	token    string
	issuedAt time.Time
}

// NewAuth creates a token manager for the given account credentials.
// baseURL may be empty to use the production API.
func NewAuth(email, password, baseURL string, httpClient *http.Client) *Auth {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Auth{
		email:      email,
		password:   password,
		baseURL:    baseURL,
		httpClient: httpClient,
		lifetime:   DefaultTokenLifetime,
		now:        time.Now,
	}
}

// Token returns the current bearer token, or "" when not authenticated.
func (a *Auth) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// NeedsRefresh reports whether the token should be refreshed: true when no
// token is held, or when now >= issuedAt + lifetime - buffer.
func (a *Auth) NeedsRefresh(buffer time.Duration) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.token == "" || a.issuedAt.IsZero() {
		return true
	}
	expiresAt := a.issuedAt.Add(a.lifetime)
	return !a.now().Before(expiresAt.Add(-buffer))
}

// MarkExpired clears the token so the next EnsureToken re-authenticates.
// Called exactly when the request funnel observes a 401.
func (a *Auth) MarkExpired() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = ""
	a.issuedAt = time.Time{}
}

// loginResponse is the body of POST /auth/token/
type loginResponse struct {
	Access string `json:"access"`
}

// EnsureToken makes sure a valid token is held, logging in when needed.
// When force is false and the current token is fresh, it returns true
// without any network traffic; this is the hot path taken by every request.
// On any login failure the prior token state is cleared and false returned.
func (a *Auth) EnsureToken(force bool) bool {
	if !force && !a.NeedsRefresh(DefaultRefreshBuffer) {
		return true
	}

	payload, err := json.Marshal(map[string]string{
		"email":    a.email,
		"password": a.password,
	})
	if err != nil {
		logging.Error("failed to marshal login request", zap.Error(err))
		a.MarkExpired()
		return false
	}

	req, err := http.NewRequest(http.MethodPost, a.baseURL+"/auth/token/", bytes.NewReader(payload))
	if err != nil {
		logging.Error("failed to create login request", zap.Error(err))
		a.MarkExpired()
		return false
	}
	setLoginHeaders(req.Header)

	logging.Debug("attempting login", zap.String("email", a.email))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logging.Error("login request failed", zap.Error(err))
		a.MarkExpired()
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logging.Error("login failed",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response", body),
		)
		a.MarkExpired()
		return false
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		logging.Error("failed to decode login response", zap.Error(err))
		a.MarkExpired()
		return false
	}
	if login.Access == "" {
		logging.Error("no access token in login response")
		a.MarkExpired()
		return false
	}

	a.mu.Lock()
	a.token = login.Access
	a.issuedAt = a.now()
	a.mu.Unlock()

	logging.Debug("obtained access token")
	return true
}

// setLoginHeaders applies the browser-style headers the vendor requires on
// the login exchange. Logins without Origin/Referer are rejected.
func setLoginHeaders(h http.Header) {
	h.Set("Accept", "application/json")
	h.Set("Accept-Language", "en-US")
	h.Set("Content-Type", "application/json")
	h.Set("Origin", "https://mydewarmte.com")
	h.Set("Referer", "https://mydewarmte.com/")
	h.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:136.0) Gecko/20100101 Firefox/136.0")
	h.Set("Authorization", "Bearer null")
}

// authHeader formats the Authorization header value for an authenticated call.
func authHeader(token string) string {
	return fmt.Sprintf("Bearer %s", token)
}
