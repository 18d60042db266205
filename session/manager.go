// Package session owns the credential pair for a token-based authentication
// scheme: it persists and restores it, decides whether the caller is
// authenticated, drives login/registration/OTP-confirmation/refresh through
// the identity client, and keeps a background refresh schedule while the
// session is alive.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/token"
	"github.com/jrsteele09/go-auth-client/token/store"
	"github.com/jrsteele09/go-auth-client/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// IdentityAPI is the slice of the identity client the manager consumes.
type IdentityAPI interface {
	Login(ctx context.Context, form identity.Form) identity.Outcome
	Register(ctx context.Context, form identity.Form) identity.Outcome
	ConfirmOTP(ctx context.Context, username, code string) identity.Outcome
	Refresh(ctx context.Context, refreshToken string) identity.Outcome
	Profile(ctx context.Context, accessToken string) (*users.User, error)
}

// Navigator is the external view router consulted on logout. The manager
// never decides what to render; it only signals that re-authentication is
// required.
type Navigator interface {
	NavigateToLogin()
}

// Manager is the facade over the session state, the token store, the
// identity client, and the refresh scheduler. Construct it with NewManager
// and install it through a Container; the container guarantees at most one
// manager owns the persisted store at a time.
type Manager struct {
	id        uuid.UUID
	store     store.Repo
	api       IdentityAPI
	scheduler *RefreshScheduler
	nav       Navigator
	log       zerolog.Logger
	nowTime   func() time.Time

	container  *Container
	generation uint64

	lock  sync.RWMutex
	state State
	// epoch counts session invalidations (logout, destroy). Operations
	// capture it before calling out; completions whose epoch is stale are
	// dropped instead of resurrecting a session that ended while they were
	// in flight.
	epoch uint64
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithNavigator sets the router hook invoked on redirecting logouts.
func WithNavigator(nav Navigator) ManagerOption {
	return func(m *Manager) {
		m.nav = nav
	}
}

// WithLogger sets the manager's logger.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// NewManager creates an unrestored manager. The refresh interval is a
// configuration constant; see config.RefreshConfig for the accepted range.
func NewManager(repo store.Repo, api IdentityAPI, refreshInterval time.Duration, options ...ManagerOption) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("[NewManager] token store is required")
	}
	if api == nil {
		return nil, errors.New("[NewManager] identity API is required")
	}
	if refreshInterval <= 0 {
		return nil, errors.New("[NewManager] refresh interval must be positive")
	}

	m := &Manager{
		id:      uuid.New(),
		store:   repo,
		api:     api,
		log:     zerolog.Nop(),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	m.scheduler = NewRefreshScheduler(refreshInterval, m.scheduledRefresh, m.log)
	m.log.Debug().Str("id", m.id.String()).Msg("session manager created")
	return m, nil
}

// ID returns the manager's instance identifier.
func (m *Manager) ID() uuid.UUID {
	return m.id
}

// Restore loads the persisted credential pair. A complete, unexpired pair
// revives the session and starts the refresh schedule; anything else leaves
// the session unauthenticated and clears the store.
func (m *Manager) Restore() {
	creds, err := m.store.Load()
	if err != nil {
		m.log.Warn().Err(err).Msg("token store unreadable, clearing it, login required")
		if clearErr := m.store.Clear(); clearErr != nil {
			m.log.Warn().Err(clearErr).Msg("failed to clear unreadable token store")
		}
		return
	}
	if !creds.Complete() {
		m.log.Debug().Msg("no persisted session, login required")
		return
	}

	m.lock.Lock()
	m.state.Credentials = creds
	m.lock.Unlock()

	if token.IsExpired(creds.AccessToken(), m.nowTime()) {
		m.log.Warn().Msg("persisted access token expired, logging out")
		m.Logout(false)
		return
	}
	m.scheduler.Start()
}

// IsLoggedIn reports whether the current access token is present, decodable,
// and unexpired. When it is not, the persisted pair is also cleared (lazy
// cleanup): this call is not a pure query.
func (m *Manager) IsLoggedIn() bool {
	m.lock.RLock()
	access := m.state.Credentials.AccessToken()
	m.lock.RUnlock()

	if token.IsExpired(access, m.nowTime()) {
		if err := m.store.Clear(); err != nil {
			m.log.Warn().Err(err).Msg("failed to clear expired credentials")
		}
		return false
	}
	return true
}

// Login submits credentials to the login endpoint and applies the outcome.
func (m *Manager) Login(ctx context.Context, form identity.Form) identity.Outcome {
	defer m.setBusy(false)
	epoch := m.beginOperation()
	return m.applyOutcome(m.api.Login(ctx, form), epoch)
}

// Register submits a registration form and applies the outcome.
func (m *Manager) Register(ctx context.Context, form identity.Form) identity.Outcome {
	defer m.setBusy(false)
	epoch := m.beginOperation()
	return m.applyOutcome(m.api.Register(ctx, form), epoch)
}

// ConfirmOTP confirms the pending step-up challenge. Calling it with no
// challenge pending is a caller error. A failed confirmation leaves the
// challenge intact so the caller may retry.
func (m *Manager) ConfirmOTP(ctx context.Context, code string) (identity.Outcome, error) {
	m.lock.RLock()
	challenge := m.state.OtpChallenge
	m.lock.RUnlock()
	if challenge == nil {
		return identity.Outcome{}, errors.Wrap(NoPendingChallengeErr, "[Manager.ConfirmOTP]")
	}

	defer m.setBusy(false)
	epoch := m.beginOperation()
	return m.applyOutcome(m.api.ConfirmOTP(ctx, challenge.PendingUsername, code), epoch), nil
}

// RefreshAccessToken rotates the access token using the stored refresh
// token. Any failure is terminal for the session: the credentials are
// cleared, the scheduler stops, and the caller must re-authenticate.
func (m *Manager) RefreshAccessToken(ctx context.Context) error {
	if !m.isCurrent() {
		m.log.Debug().Str("id", m.id.String()).Msg("refresh on superseded manager dropped")
		return nil
	}

	defer m.setBusy(false)
	epoch := m.beginOperation()

	m.lock.RLock()
	refreshToken := m.state.Credentials.RefreshToken()
	m.lock.RUnlock()
	if refreshToken == "" {
		m.Logout(true)
		return errors.Wrap(NoRefreshTokenErr, "[Manager.RefreshAccessToken]")
	}

	outcome := m.api.Refresh(ctx, refreshToken)
	if !m.isLive(epoch) {
		m.log.Debug().Str("id", m.id.String()).Msg("stale refresh completion dropped")
		return nil
	}
	if outcome.Status != identity.StatusAuthenticated {
		m.log.Warn().Err(outcome.Err).Msg("token refresh failed, session terminated")
		m.Logout(true)
		return outcome.Err
	}

	m.lock.Lock()
	m.state.Credentials.Access = outcome.Credentials.Access
	if outcome.Credentials.RefreshToken() != "" {
		m.state.Credentials.Refresh = outcome.Credentials.Refresh
	}
	m.lock.Unlock()

	// Partial save: an absent refresh token leaves the stored one untouched.
	if err := m.store.Save(outcome.Credentials); err != nil {
		return errors.Wrap(err, "[Manager.RefreshAccessToken] persist")
	}
	return nil
}

// FetchProfile retrieves the user profile with the current access token and
// caches it on the session.
func (m *Manager) FetchProfile(ctx context.Context) (*users.User, error) {
	defer m.setBusy(false)
	epoch := m.beginOperation()

	m.lock.RLock()
	access := m.state.Credentials.AccessToken()
	m.lock.RUnlock()

	user, err := m.api.Profile(ctx, access)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.FetchProfile]")
	}
	if m.isLive(epoch) {
		m.lock.Lock()
		m.state.User = user
		m.lock.Unlock()
	}
	return user, nil
}

// Logout clears the in-memory session and the persisted pair, stops the
// refresh schedule, and optionally signals the router to show the login view.
func (m *Manager) Logout(redirect bool) {
	m.scheduler.Stop()

	m.lock.Lock()
	m.state = State{}
	m.epoch++
	m.lock.Unlock()

	if err := m.store.Clear(); err != nil {
		m.log.Warn().Err(err).Msg("failed to clear token store on logout")
	}
	if redirect && m.nav != nil {
		m.nav.NavigateToLogin()
	}
}

// Destroy clears the in-memory session and stops the scheduler without
// touching the persisted store. Used only when a newer manager supersedes
// this one.
func (m *Manager) Destroy() {
	m.scheduler.Stop()

	m.lock.Lock()
	m.state = State{}
	m.epoch++
	m.lock.Unlock()

	m.log.Debug().Str("id", m.id.String()).Msg("session manager destroyed")
}

// AuthorizationHeader returns the bearer header value for outbound requests,
// or "" when no access token is present. Pure read: it never triggers a
// refresh.
func (m *Manager) AuthorizationHeader() string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	access := m.state.Credentials.AccessToken()
	if access == "" {
		return ""
	}
	return "Bearer " + access
}

// Authenticator returns the hook the outbound HTTP layer consults on every
// request.
func (m *Manager) Authenticator() func() string {
	return m.AuthorizationHeader
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() State {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state
}

// AuthErrors returns the field-keyed errors from the last failed operation.
func (m *Manager) AuthErrors() identity.FieldErrors {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state.AuthErrors
}

// OtpRequired reports whether a step-up challenge is pending.
func (m *Manager) OtpRequired() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state.OtpChallenge != nil
}

// Busy reports whether an operation is in flight. UI hint only.
func (m *Manager) Busy() bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state.Busy
}

// User returns the cached profile, if any.
func (m *Manager) User() *users.User {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.state.User
}

// SchedulerRunning reports whether the background refresh is armed.
func (m *Manager) SchedulerRunning() bool {
	return m.scheduler.Running()
}

// applyOutcome folds an identity outcome into the session state. The pair
// update is atomic under the write lock: no caller observes one token of the
// pair without the other. Outcomes from a superseded manager, or from an
// operation that started before a logout or destroy, are dropped.
func (m *Manager) applyOutcome(outcome identity.Outcome, epoch uint64) identity.Outcome {
	if !m.isLive(epoch) {
		m.log.Debug().Str("id", m.id.String()).Msg("stale outcome dropped")
		return outcome
	}

	switch outcome.Status {
	case identity.StatusAuthenticated:
		m.lock.Lock()
		m.state.Credentials = outcome.Credentials
		if outcome.User != nil {
			m.state.User = outcome.User
		}
		m.state.OtpChallenge = nil
		m.lock.Unlock()

		if err := m.store.Save(outcome.Credentials); err != nil {
			m.log.Warn().Err(err).Msg("failed to persist credentials")
		}
		m.scheduler.Start()

	case identity.StatusStepUpRequired:
		m.lock.Lock()
		m.state.OtpChallenge = &OtpChallenge{PendingUsername: outcome.PendingUsername}
		m.lock.Unlock()

	case identity.StatusFailed:
		m.lock.Lock()
		m.state.AuthErrors = outcome.FieldErrors
		m.lock.Unlock()
		m.log.Debug().Err(outcome.Err).Msg("identity operation failed")
	}
	return outcome
}

func (m *Manager) scheduledRefresh(ctx context.Context) {
	if !m.isCurrent() {
		return
	}
	if err := m.RefreshAccessToken(ctx); err != nil {
		m.log.Warn().Err(err).Msg("scheduled refresh failed")
	}
}

// beginOperation marks the session busy, clears the previous operation's
// errors, and returns the epoch the caller must present when applying the
// completion.
func (m *Manager) beginOperation() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.state.Busy = true
	m.state.AuthErrors = nil
	return m.epoch
}

func (m *Manager) setBusy(busy bool) {
	m.lock.Lock()
	m.state.Busy = busy
	m.lock.Unlock()
}

func (m *Manager) bind(c *Container, generation uint64) {
	m.container = c
	m.generation = generation
}

// isCurrent reports whether this manager still owns the session. Standalone
// managers (no container) are always current.
func (m *Manager) isCurrent() bool {
	if m.container == nil {
		return true
	}
	return m.container.isCurrent(m.generation)
}

// isLive reports whether a completion captured at the given epoch may still
// mutate the session: the manager must own the store and no logout or
// destroy may have happened since the operation began.
func (m *Manager) isLive(epoch uint64) bool {
	if !m.isCurrent() {
		return false
	}
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.epoch == epoch
}
