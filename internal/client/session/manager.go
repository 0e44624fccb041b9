// Package session owns the client's authentication state machine. A stored
// token is never trusted on its own: the manager challenges the backend's
// identity endpoint and only a successfully hydrated user identity makes the
// session authenticated.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/gophstore/internal/client/credstore"
	"github.com/dmitrijs2005/gophstore/internal/client/models"
	"github.com/dmitrijs2005/gophstore/internal/common"
	"github.com/dmitrijs2005/gophstore/internal/logging"
)

// IdentityAPI is the slice of the backend client the session manager uses.
type IdentityAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	Register(ctx context.Context, r models.Registration) error
}

// State is an immutable snapshot of the session.
//
// Loading is true only while a verification round-trip is in flight; callers
// should not render authenticated or unauthenticated UI until it settles.
type State struct {
	Token   string
	User    *models.User
	Loading bool
}

// Authenticated reports whether the session holds both a token and a
// verified identity. A token alone is not sufficient: it may be stale.
func (s State) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Options tune optional manager behavior.
type Options struct {
	// AutoLoginAfterRegister makes Register log the new user in with the
	// credentials it just registered.
	AutoLoginAfterRegister bool
}

// Manager converts a stored credential into a session state visible to the
// whole application. It is safe for concurrent use.
type Manager struct {
	api      IdentityAPI
	creds    credstore.Store
	log      logging.Logger
	validate *validator.Validate
	opts     Options

	mu      sync.Mutex
	token   string
	user    *models.User
	loading bool
	// gen is bumped on every token write; a verification response carrying
	// a stale generation is discarded (last token write wins).
	gen uint64

	onLogout []func(ctx context.Context)
}

func NewManager(api IdentityAPI, creds credstore.Store, log logging.Logger, opts Options) *Manager {
	return &Manager{
		api:      api,
		creds:    creds,
		log:      log,
		validate: validator.New(),
		opts:     opts,
	}
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Token: m.token, User: m.user, Loading: m.loading}
}

// Token returns the current token, or "" when unauthenticated. It is the
// usual api.TokenSource implementation.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Authenticated is shorthand for Snapshot().Authenticated().
func (m *Manager) Authenticated() bool {
	return m.Snapshot().Authenticated()
}

// OnLogout registers fn to run after every logout, once the session state is
// already torn down. The cart store's logout policy hangs off this hook.
func (m *Manager) OnLogout(fn func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLogout = append(m.onLogout, fn)
}

// Bootstrap reads the credential store and, when a token is present,
// verifies it against the backend. A failed verification is a silent
// downgrade to unauthenticated: the token is purged and no error is
// returned. The returned error is non-nil only when the credential store
// itself is unusable, which is a fatal startup condition.
func (m *Manager) Bootstrap(ctx context.Context) error {
	tok, err := m.creds.Token(ctx)
	if err != nil {
		return fmt.Errorf("credential store unavailable: %w", err)
	}
	if tok == "" {
		return nil
	}

	if tokenExpired(tok, time.Now()) {
		m.log.Info(ctx, "cached token already expired, discarding")
		if err := m.creds.Clear(ctx); err != nil {
			m.log.Warn(ctx, "failed to purge expired token", "error", err)
		}
		return nil
	}

	gen := m.setToken(tok)
	m.verify(ctx, gen)
	return nil
}

// Login exchanges credentials for a token, persists it, and hydrates the
// user identity. The session becomes authenticated only once hydration
// succeeds. On any failure the token is purged and the error is returned.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	token, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.reset()
		if clearErr := m.creds.Clear(ctx); clearErr != nil {
			m.log.Warn(ctx, "failed to purge token after rejected login", "error", clearErr)
		}
		return err
	}

	if err := m.creds.SetToken(ctx, token); err != nil {
		m.reset()
		return fmt.Errorf("failed to persist token: %w", err)
	}

	gen := m.setToken(token)
	if err := m.verify(ctx, gen); err != nil {
		return fmt.Errorf("identity verification failed: %w", err)
	}
	return nil
}

// Logout always succeeds: it purges the token, clears the user, and invokes
// the registered logout hooks. An in-flight verification for the old token
// is invalidated by the generation bump.
func (m *Manager) Logout(ctx context.Context) {
	m.reset()
	if err := m.creds.Clear(ctx); err != nil {
		m.log.Warn(ctx, "failed to clear credential store on logout", "error", err)
	}

	m.mu.Lock()
	hooks := make([]func(ctx context.Context), len(m.onLogout))
	copy(hooks, m.onLogout)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(ctx)
	}
}

// Register validates the payload locally and creates the account on the
// backend. Session state is untouched unless AutoLoginAfterRegister is set.
func (m *Manager) Register(ctx context.Context, r models.Registration) error {
	if err := m.validate.Struct(r); err != nil {
		return localValidationError(err)
	}
	if err := m.api.Register(ctx, r); err != nil {
		return err
	}
	if m.opts.AutoLoginAfterRegister {
		return m.Login(ctx, r.Username, r.Password)
	}
	return nil
}

// setToken records a new token, marks the session verifying, and returns
// the generation that identifies this token write.
func (m *Manager) setToken(token string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = nil
	m.loading = true
	m.gen++
	return m.gen
}

// reset drops token and user; any in-flight verification becomes stale.
func (m *Manager) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	m.loading = false
	m.gen++
}

// verify resolves the identity behind the token written at generation gen.
// A result arriving after a newer token write is discarded. On failure the
// token is purged from memory and the credential store.
func (m *Manager) verify(ctx context.Context, gen uint64) error {
	user, err := m.api.CurrentUser(ctx)

	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		m.log.Info(ctx, "discarding verification result for superseded token")
		return nil
	}
	m.loading = false
	if err != nil {
		m.token = ""
		m.user = nil
		m.gen++
		m.mu.Unlock()
		if clearErr := m.creds.Clear(ctx); clearErr != nil {
			m.log.Warn(ctx, "failed to purge invalid token", "error", clearErr)
		}
		m.log.Warn(ctx, "token verification failed", "error", err)
		return err
	}
	m.user = user
	m.mu.Unlock()
	return nil
}

// tokenExpired reports whether token is a JWT whose exp claim is already in
// the past. Tokens that do not parse as JWTs, or carry no exp claim, are
// treated as live and left for the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

// localValidationError converts validator output into the shared
// ValidationError shape so callers see one error type for both local and
// backend rejections.
func localValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &common.ValidationError{Message: err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fmt.Sprintf("failed %q validation", fe.Tag())
	}
	return &common.ValidationError{Fields: fields}
}
