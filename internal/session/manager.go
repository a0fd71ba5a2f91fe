// Package session owns the authenticated identity: login, registration, logout and
// restoration from the local session store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/state"

	"github.com/sirupsen/logrus"
)

// ErrSuperseded is returned when a logout or another login completed while the
// request was in flight. The late result is discarded.
var ErrSuperseded = errors.New("session changed while request was in flight")

type Gateway interface {
	Login(ctx context.Context, email, password string) (model.AuthResponse, error)
	Register(ctx context.Context, name, email, password string) (model.AuthResponse, error)
}

// ChangeFunc observes identity transitions. prev and next may be nil.
type ChangeFunc func(prev, next *model.Identity)

type Manager struct {
	gw    Gateway
	store Store
	log   logrus.FieldLogger

	mu       sync.Mutex
	identity *state.Value[*model.Identity]
	errs     *state.Value[error]
	hooks    []ChangeFunc
}

func NewManager(gw Gateway, store Store, log logrus.FieldLogger) *Manager {
	return &Manager{
		gw:       gw,
		store:    store,
		log:      log.WithField("component", "session"),
		identity: state.NewValue[*model.Identity](nil),
		errs:     state.NewValue[error](nil),
	}
}

// OnChange registers fn to run after every identity transition.
func (m *Manager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Identity is the observable identity container. nil means guest.
func (m *Manager) Identity() *state.Value[*model.Identity] { return m.identity }

// Err is the error facet of the last login/register attempt.
func (m *Manager) Err() *state.Value[error] { return m.errs }

// Current returns a copy of the active identity, or nil.
func (m *Manager) Current() *model.Identity {
	id := m.identity.Get()
	if id == nil {
		return nil
	}
	cp := *id
	return &cp
}

// Role is the live role snapshot the policy reads.
func (m *Manager) Role() model.Role {
	if id := m.identity.Get(); id != nil {
		return id.Role
	}
	return model.RoleGuest
}

func (m *Manager) Token() string {
	if id := m.identity.Get(); id != nil {
		return id.AuthToken
	}
	return ""
}

func (m *Manager) UserID() string {
	if id := m.identity.Get(); id != nil {
		return id.ID
	}
	return ""
}

// Restore loads the persisted identity. A missing, unreadable or corrupt entry
// resolves to no session and is never reported as an error.
func (m *Manager) Restore(ctx context.Context) (*model.Identity, bool) {
	id := m.readPersisted(ctx)

	m.mu.Lock()
	prev := m.identity.Get()
	m.identity.Reset(id)
	hooks := append([]ChangeFunc(nil), m.hooks...)
	m.mu.Unlock()

	notify(hooks, prev, id)
	if id == nil {
		return nil, false
	}
	m.log.WithFields(logrus.Fields{"user": id.ID, "role": id.Role}).Info("session restored")
	cp := *id
	return &cp, true
}

func (m *Manager) readPersisted(ctx context.Context) *model.Identity {
	raw, ok, err := m.store.Read(ctx, KeyUser)
	if err != nil {
		m.log.WithError(err).Warn("session store unreadable, starting without session")
		return nil
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}

	var id model.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		m.log.WithError(err).Warn("persisted session is corrupt, ignoring it")
		return nil
	}
	if id.ID == "" || !id.Role.Authenticated() {
		m.log.Warn("persisted session has no usable identity, ignoring it")
		return nil
	}

	if tok, ok, err := m.store.Read(ctx, KeyToken); err == nil && ok && tok != "" {
		id.AuthToken = tok
	}
	return &id
}

// Login authenticates against the gateway. A non-2xx answer is reported as
// ErrInvalidCredentials, a transport failure as *apperr.ConnectionError.
func (m *Manager) Login(ctx context.Context, email, password string) (model.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.Identity{}, m.fail(apperr.Invalid("email", "is required"))
	}
	if password == "" {
		return model.Identity{}, m.fail(apperr.Invalid("password", "is required"))
	}

	tok := m.identity.Begin()
	m.errs.Set(nil)

	resp, err := m.gw.Login(ctx, email, password)
	if err != nil {
		if apperr.IsConnection(err) {
			return model.Identity{}, m.fail(err)
		}
		m.log.WithError(err).WithField("email", email).Info("login rejected")
		return model.Identity{}, m.fail(fmt.Errorf("login: %w", apperr.ErrInvalidCredentials))
	}
	if resp.User.ID == "" {
		return model.Identity{}, m.fail(fmt.Errorf("login: %w", apperr.ErrInvalidCredentials))
	}

	return m.establish(ctx, tok, model.IdentityFromUser(resp.User, resp.Token))
}

// Register creates the account and establishes it as the active identity.
func (m *Manager) Register(ctx context.Context, name, email, password string) (model.Identity, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	switch {
	case name == "":
		return model.Identity{}, m.fail(apperr.Invalid("name", "is required"))
	case email == "":
		return model.Identity{}, m.fail(apperr.Invalid("email", "is required"))
	case password == "":
		return model.Identity{}, m.fail(apperr.Invalid("password", "is required"))
	}

	tok := m.identity.Begin()
	m.errs.Set(nil)

	resp, err := m.gw.Register(ctx, name, email, password)
	if err != nil {
		return model.Identity{}, m.fail(fmt.Errorf("register: %w", err))
	}
	if resp.User.ID == "" {
		return model.Identity{}, m.fail(&apperr.ServerError{Op: "register", StatusCode: 200, Message: "response carried no user"})
	}

	return m.establish(ctx, tok, model.IdentityFromUser(resp.User, resp.Token))
}

// establish persists id and only then publishes it in memory.
func (m *Manager) establish(ctx context.Context, tok state.Token, id model.Identity) (model.Identity, error) {
	m.mu.Lock()
	if m.identity.Begin() != tok {
		m.mu.Unlock()
		return model.Identity{}, m.fail(ErrSuperseded)
	}
	if err := m.persist(ctx, id); err != nil {
		m.mu.Unlock()
		return model.Identity{}, m.fail(fmt.Errorf("persist session: %w", err))
	}
	prev := m.identity.Get()
	next := id
	m.identity.Reset(&next)
	hooks := append([]ChangeFunc(nil), m.hooks...)
	m.mu.Unlock()

	m.log.WithFields(logrus.Fields{"user": id.ID, "role": id.Role}).Info("session established")
	notify(hooks, prev, &next)
	return id, nil
}

func (m *Manager) persist(ctx context.Context, id model.Identity) error {
	b, err := json.Marshal(id)
	if err != nil {
		return err
	}
	if err := m.store.Save(ctx, KeyUser, string(b)); err != nil {
		return err
	}
	// an empty value overwrites the token of a previous identity
	return m.store.Save(ctx, KeyToken, id.AuthToken)
}

// Logout clears the persisted and in-memory identity. It is idempotent and
// always leaves memory cleared, even if the store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	err := m.store.Clear(ctx)
	prev := m.identity.Get()
	m.identity.Reset(nil)
	m.errs.Set(nil)
	hooks := append([]ChangeFunc(nil), m.hooks...)
	m.mu.Unlock()

	if err != nil {
		m.log.WithError(err).Warn("could not clear persisted session")
	}
	if prev != nil {
		m.log.WithField("user", prev.ID).Info("logged out")
	}
	notify(hooks, prev, nil)
	return err
}

func (m *Manager) fail(err error) error {
	m.errs.Set(err)
	return err
}

func notify(hooks []ChangeFunc, prev, next *model.Identity) {
	if prev == nil && next == nil {
		return
	}
	for _, h := range hooks {
		h(prev, next)
	}
}
