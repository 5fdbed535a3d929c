package smartapi

import (
	"context"
	"sync"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"

	"github.com/LegitScarf/OptiTrade-Dockerized/internal/config"
	apperrors "github.com/LegitScarf/OptiTrade-Dockerized/internal/errors"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/logging"
	"github.com/LegitScarf/OptiTrade-Dockerized/internal/models"
)

// loginExchange performs one credential + one-time-code exchange and
// returns the token triplet. Injectable so tests can count exchanges.
type loginExchange func(ctx context.Context, clientID, mpin, totpCode string) (*LoginResult, error)

// Manager owns the one broker session and its validity window. All session
// access goes through Acquire, which serializes refreshes behind a single
// mutex so concurrent callers can never interleave-write the token triplet.
type Manager struct {
	mu      sync.Mutex
	creds   config.AngelCredentials
	ttl     time.Duration
	login   loginExchange
	now     func() time.Time
	current models.Session
	logger  zerolog.Logger
}

// DefaultSessionTTL is the validity window applied when none is configured.
const DefaultSessionTTL = time.Hour

// NewManager creates a session manager backed by the given client.
func NewManager(client *Client, creds config.AngelCredentials, ttl time.Duration, logger zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Manager{
		creds:  creds,
		ttl:    ttl,
		login:  client.Login,
		now:    time.Now,
		logger: logger,
		current: models.Session{
			Status: models.SessionUnauthenticated,
		},
	}
}

// Acquire returns a valid session, refreshing it first when the cached one
// is missing, non-valid, or past its TTL. Exactly one login exchange runs
// no matter how many callers arrive concurrently.
func (m *Manager) Acquire(ctx context.Context) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if m.current.Status == models.SessionValid {
		if now.Sub(m.current.IssuedAt) <= m.ttl {
			return m.current, nil
		}
		// TTL elapsed; mark before refreshing so a failed refresh does not
		// leave a stale "valid" session behind.
		m.current = models.Session{Status: models.SessionExpired}
	}

	session, err := m.exchange(ctx, now)
	if err != nil {
		m.current = models.Session{Status: models.SessionFailed}
		return models.Session{}, err
	}

	// Replace wholesale: the triplet is never written field by field.
	m.current = session
	logging.LogSession(m.logger, string(session.Status), session.ValidUntil)
	return m.current, nil
}

func (m *Manager) exchange(ctx context.Context, now time.Time) (models.Session, error) {
	if !m.creds.Complete() {
		return models.Session{}, apperrors.NewAuthError("credentials", "api_key, client_id, mpin and totp_secret are all required", apperrors.ErrMissingCredentials)
	}

	code, err := totp.GenerateCode(m.creds.TOTPSecret, now)
	if err != nil {
		return models.Session{}, apperrors.NewAuthError("totp", "generating one-time code", err)
	}

	result, err := m.login(ctx, m.creds.ClientID, m.creds.MPIN, code)
	if err != nil {
		var authErr *apperrors.AuthError
		if apperrors.As(err, &authErr) {
			return models.Session{}, err
		}
		return models.Session{}, apperrors.NewAuthError("login", "session exchange failed", err)
	}

	return models.Session{
		Handle:       result.JWTToken,
		FeedToken:    result.FeedToken,
		RefreshToken: result.RefreshToken,
		IssuedAt:     now,
		ValidUntil:   now.Add(m.ttl),
		Status:       models.SessionValid,
	}, nil
}

// Current returns the cached session without refreshing it.
func (m *Manager) Current() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Invalidate discards the cached session; the next Acquire will re-login.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = models.Session{Status: models.SessionUnauthenticated}
}
