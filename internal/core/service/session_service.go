package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/api/metrics"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
	"github.com/pear651530/Meal-Provider/internal/core/ports"
)

// SessionUpstream is the slice of the user service a session needs.
type SessionUpstream interface {
	ports.ProfileFetcher
	MarkNotificationRead(ctx context.Context, token string, notificationID int64) error
}

// SessionContext holds the authorization state of one session. All operations
// on a context are serialized; callers only ever see copies of the state.
type SessionContext struct {
	id    string
	store ports.TokenStore
	users SessionUpstream
	log   zerolog.Logger
	now   func() time.Time

	restoreOnce sync.Once

	mu      sync.Mutex
	state   domain.Session
	lastErr string
}

func newSessionContext(id string, store ports.TokenStore, users SessionUpstream, log zerolog.Logger) *SessionContext {
	return &SessionContext{
		id:    id,
		store: store,
		users: users,
		log:   log.With().Str("sid", id).Logger(),
		now:   time.Now,
	}
}

// ID returns the session id.
func (s *SessionContext) ID() string {
	return s.id
}

// Restore rebuilds the session from the token store. Identity comes from the
// cached profile without a network call; notifications are fetched afterwards
// and degrade to an empty list. A persisted JWT whose exp has passed clears
// both persisted entries and leaves the session logged out.
func (s *SessionContext) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, token, found, err := s.store.Load(ctx, s.id)
	if err != nil {
		metrics.SessionRestoresTotal.WithLabelValues("error").Inc()
		s.state = domain.Session{}
		if cerr := s.store.Clear(ctx, s.id); cerr != nil {
			s.log.Warn().Err(cerr).Msg("failed to clear unreadable session")
		}
		return fmt.Errorf("restore session: %w", err)
	}
	if !found {
		metrics.SessionRestoresTotal.WithLabelValues("empty").Inc()
		return nil
	}

	if tokenExpired(token, s.now()) {
		metrics.SessionRestoresTotal.WithLabelValues("expired").Inc()
		s.state = domain.Session{}
		if err := s.store.Clear(ctx, s.id); err != nil {
			s.log.Warn().Err(err).Msg("failed to clear expired session")
		}
		return domain.ErrSessionExpired
	}

	s.state = domain.Session{
		Profile:      &profile,
		Capabilities: domain.CapabilitiesFor(profile.Role),
		BearerToken:  token,
	}
	s.loadNotifications(ctx)

	metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	s.log.Debug().Int64("user_id", profile.ID).Str("role", string(profile.Role)).Msg("session restored")
	return nil
}

// Login adopts token, resolves the profile and persists both entries. It
// never returns an error: on any failure the session is rolled back to
// logged-out, LastError is set and nil is returned.
func (s *SessionContext) Login(ctx context.Context, token string) *domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastErr = ""
	s.state.BearerToken = token

	if err := s.store.SaveToken(ctx, s.id, token); err != nil {
		s.rollback(ctx, err)
		return nil
	}

	profile, err := s.users.Me(ctx, token)
	if err != nil {
		s.rollback(ctx, err)
		return nil
	}

	s.state.Profile = &profile
	s.state.Capabilities = domain.CapabilitiesFor(profile.Role)

	if err := s.store.SaveProfile(ctx, s.id, profile); err != nil {
		s.rollback(ctx, err)
		return nil
	}

	s.loadNotifications(ctx)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Int64("user_id", profile.ID).Str("role", string(profile.Role)).Msg("login succeeded")

	out := profile
	return &out
}

// Logout clears the in-memory state and both persisted entries. No network
// call is made to the backends.
func (s *SessionContext) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.Session{}
	s.lastErr = ""
	if err := s.store.Clear(ctx, s.id); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// MarkNotificationRead tells the user service the notification was read and,
// on success, drops exactly that id from the working set.
func (s *SessionContext) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated() {
		return domain.ErrNotLoggedIn
	}
	if err := s.users.MarkNotificationRead(ctx, s.state.BearerToken, notificationID); err != nil {
		return fmt.Errorf("mark notification %d read: %w", notificationID, err)
	}
	s.state.Notifications = domain.WithoutNotification(s.state.Notifications, notificationID)
	return nil
}

// RefreshNotifications re-fetches the notification list. A logged-out session
// is left untouched.
func (s *SessionContext) RefreshNotifications(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Authenticated() {
		return
	}
	s.loadNotifications(ctx)
}

// Snapshot returns a copy of the current state.
func (s *SessionContext) Snapshot() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LastError returns the user-facing message of the last failed login, if any.
func (s *SessionContext) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// loadNotifications must be called with mu held.
func (s *SessionContext) loadNotifications(ctx context.Context) {
	list, err := s.users.Notifications(ctx, s.state.BearerToken, s.state.UserID())
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", s.state.UserID()).Msg("failed to load notifications")
		s.state.Notifications = []domain.Notification{}
		return
	}
	s.state.Notifications = list
}

// rollback must be called with mu held.
func (s *SessionContext) rollback(ctx context.Context, cause error) {
	metrics.LoginsTotal.WithLabelValues("profile_failed").Inc()
	s.log.Warn().Err(cause).Msg("login failed, session rolled back")

	s.state = domain.Session{}
	s.lastErr = domain.ErrLoginFailed.Error()
	if err := s.store.Clear(ctx, s.id); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear persisted session after login failure")
	}
}

// tokenExpired reports whether token is a JWT with an exp claim in the past.
// Tokens that do not parse as JWTs are treated as opaque and never expire here.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(now)
}

// SessionManager owns the live session contexts, keyed by session id.
type SessionManager struct {
	store    ports.TokenStore
	users    SessionUpstream
	log      zerolog.Logger
	contexts *cache.Cache

	mu sync.Mutex
}

var _ ports.SessionService = (*SessionManager)(nil)

// NewSessionManager returns a manager whose contexts are evicted after ttl
// without access.
func NewSessionManager(store ports.TokenStore, users SessionUpstream, ttl time.Duration, log zerolog.Logger) *SessionManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	m := &SessionManager{
		store:    store,
		users:    users,
		log:      log,
		contexts: cache.New(ttl, ttl/2),
	}
	m.contexts.OnEvicted(func(string, interface{}) {
		metrics.ActiveSessions.Set(float64(m.contexts.ItemCount()))
	})
	return m
}

// Get returns the context for sessionID, creating and restoring it on first
// touch. Every access extends the context's lifetime.
func (m *SessionManager) Get(ctx context.Context, sessionID string) *SessionContext {
	m.mu.Lock()
	sc, ok := m.lookup(sessionID)
	if !ok {
		sc = newSessionContext(sessionID, m.store, m.users, m.log)
	}
	m.contexts.SetDefault(sessionID, sc)
	m.mu.Unlock()

	if !ok {
		metrics.ActiveSessions.Set(float64(m.contexts.ItemCount()))
	}

	sc.restoreOnce.Do(func() {
		if err := sc.Restore(ctx); err != nil {
			m.log.Warn().Err(err).Str("sid", sessionID).Msg("session restore failed")
		}
	})
	return sc
}

func (m *SessionManager) lookup(sessionID string) (*SessionContext, bool) {
	v, ok := m.contexts.Get(sessionID)
	if !ok {
		return nil, false
	}
	sc, ok := v.(*SessionContext)
	return sc, ok
}

// Login implements ports.SessionService.
func (m *SessionManager) Login(ctx context.Context, sessionID, token string) *domain.Profile {
	return m.Get(ctx, sessionID).Login(ctx, token)
}

// Logout implements ports.SessionService. The context is dropped from memory
// once its persisted entries are gone. An evicted context is not rebuilt, so
// logout never restores and never reaches the backends.
func (m *SessionManager) Logout(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	sc, ok := m.lookup(sessionID)
	m.contexts.Delete(sessionID)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(m.contexts.ItemCount()))
	if !ok {
		return m.store.Clear(ctx, sessionID)
	}
	return sc.Logout(ctx)
}

// LoginError implements ports.SessionService.
func (m *SessionManager) LoginError(sessionID string) string {
	sc, ok := m.lookup(sessionID)
	if !ok {
		return ""
	}
	return sc.LastError()
}

// Session implements ports.SessionService.
func (m *SessionManager) Session(ctx context.Context, sessionID string) (domain.Session, error) {
	snap := m.Get(ctx, sessionID).Snapshot()
	if !snap.Authenticated() {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	return snap, nil
}

// MarkNotificationRead implements ports.SessionService.
func (m *SessionManager) MarkNotificationRead(ctx context.Context, sessionID string, notificationID int64) error {
	return m.Get(ctx, sessionID).MarkNotificationRead(ctx, notificationID)
}

// RefreshUser re-fetches notifications for every live session of userID and
// returns how many sessions were refreshed.
func (m *SessionManager) RefreshUser(ctx context.Context, userID int64) int {
	refreshed := 0
	for _, item := range m.contexts.Items() {
		sc, ok := item.Object.(*SessionContext)
		if !ok || sc.Snapshot().UserID() != userID {
			continue
		}
		sc.RefreshNotifications(ctx)
		refreshed++
	}
	return refreshed
}

// Len returns the number of live contexts.
func (m *SessionManager) Len() int {
	return m.contexts.ItemCount()
}
