// Package session resolves shopper sessions to their cart and bearer token.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/vortex/internal/cart"
	"github.com/dukerupert/vortex/internal/domain"
	"github.com/dukerupert/vortex/internal/storage"
	"github.com/dukerupert/vortex/internal/telemetry"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// TokenKey returns the session storage key holding the bearer token for sessionID.
func TokenKey(sessionID string) string {
	return "token:" + sessionID
}

// NewID returns a fresh session ID.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an ID issued by NewID.
// Cookie values failing this check are replaced, never used as storage keys.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type entry struct {
	store    *cart.Store
	lastSeen time.Time
}

// Manager owns one cart.Store per active session and the session's token.
// Carts stay cached in memory while in use; concurrent first requests for
// the same session share a single load.
type Manager struct {
	storage storage.Storage
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
	idleTTL time.Duration
	now     func() time.Time

	mu     sync.Mutex
	carts  map[string]*entry
	loader singleflight.Group
}

// Config configures a Manager.
type Config struct {
	// IdleTTL is how long an unused cart stays cached; 0 means 30 minutes.
	IdleTTL time.Duration
	Metrics *telemetry.BusinessMetrics
}

// NewManager creates a session manager backed by st.
func NewManager(st storage.Storage, logger *slog.Logger, cfg Config) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	return &Manager{
		storage: st,
		logger:  logger,
		metrics: cfg.Metrics,
		idleTTL: cfg.IdleTTL,
		now:     time.Now,
		carts:   make(map[string]*entry),
	}
}

// Cart returns the cart for sessionID, loading it from storage on first use.
func (m *Manager) Cart(ctx context.Context, sessionID string) (*cart.Store, error) {
	if !ValidID(sessionID) {
		return nil, domain.Invalid("session.cart", "invalid session")
	}

	if s := m.cached(sessionID); s != nil {
		return s, nil
	}

	v, err, _ := m.loader.Do(sessionID, func() (interface{}, error) {
		if s := m.cached(sessionID); s != nil {
			return s, nil
		}

		// The load outlives a single request: other callers share its result.
		loadCtx := context.WithoutCancel(ctx)
		store, result := cart.Load(loadCtx, m.storage, cart.Key(sessionID),
			m.logger.With("session_id", sessionID),
			cart.WithMetrics(m.metrics),
		)
		if result.Degraded() {
			m.logger.Warn("cart rehydrated empty", "session_id", sessionID, "result", string(result))
		}

		m.mu.Lock()
		m.carts[sessionID] = &entry{store: store, lastSeen: m.now()}
		m.mu.Unlock()

		return store, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*cart.Store), nil
}

func (m *Manager) cached(sessionID string) *cart.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.carts[sessionID]; ok {
		e.lastSeen = m.now()
		return e.store
	}
	return nil
}

// Sweep drops carts idle for longer than the idle TTL and returns how many
// were dropped. Their saved state stays in storage.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.carts {
		if e.lastSeen.Before(cutoff) {
			delete(m.carts, id)
			n++
		}
	}
	return n
}

// Active returns the number of cached carts.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}

// Run sweeps idle carts every interval until ctx is canceled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Debug("swept idle carts", "count", n, "active", m.Active())
			}
		}
	}
}

// =============================================================================
// Bearer token
// =============================================================================

// Token returns the bearer token of the session in ctx, or "" when the
// shopper is signed out or storage is unreadable.
func (m *Manager) Token(ctx context.Context) string {
	sessionID := domain.SessionIDFromContext(ctx)
	if sessionID == "" {
		return ""
	}

	data, err := m.storage.Get(ctx, TokenKey(sessionID))
	if err != nil {
		if !storage.IsNotFound(err) {
			m.logger.Warn("failed to read session token", "session_id", sessionID, "error", err)
		}
		return ""
	}
	return string(data)
}

// SetToken stores the bearer token for the session in ctx.
func (m *Manager) SetToken(ctx context.Context, token string) error {
	sessionID := domain.SessionIDFromContext(ctx)
	if sessionID == "" {
		return domain.Invalid("session.set_token", "no session")
	}
	if token == "" {
		return m.ClearToken(ctx)
	}
	return m.storage.Set(ctx, TokenKey(sessionID), []byte(token))
}

// ClearToken removes the bearer token for the session in ctx.
func (m *Manager) ClearToken(ctx context.Context) error {
	sessionID := domain.SessionIDFromContext(ctx)
	if sessionID == "" {
		return nil
	}
	return m.storage.Delete(ctx, TokenKey(sessionID))
}
