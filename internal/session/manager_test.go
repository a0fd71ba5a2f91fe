package session

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	resp  model.AuthResponse
	err   error
	calls int
	// before runs inside the call, after the request was "sent"
	before func()
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	f.calls++
	if f.before != nil {
		f.before()
	}
	return f.resp, f.err
}

func (f *fakeGateway) Register(ctx context.Context, name, email, password string) (model.AuthResponse, error) {
	f.calls++
	if f.before != nil {
		f.before()
	}
	return f.resp, f.err
}

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func adminResponse() model.AuthResponse {
	return model.AuthResponse{
		User:  model.User{ID: "u1", Name: "Ana", Email: "ana@x.io", Role: model.RoleAdmin},
		Token: "jwt-1",
	}
}

func TestLoginPersistsAndPublishes(t *testing.T) {
	store := NewMemoryStore()
	gw := &fakeGateway{resp: adminResponse()}
	m := NewManager(gw, store, quiet())

	id, err := m.Login(context.Background(), "ana@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, model.RoleAdmin, m.Role())
	assert.Equal(t, "jwt-1", m.Token())

	raw, ok, _ := store.Read(context.Background(), KeyUser)
	require.True(t, ok)
	assert.Contains(t, raw, `"role":"ADMIN"`)
	tok, ok, _ := store.Read(context.Background(), KeyToken)
	require.True(t, ok)
	assert.Equal(t, "jwt-1", tok)
}

type orderCheckingStore struct {
	*MemoryStore
	m         *Manager
	sawMemory bool
}

func (s *orderCheckingStore) Save(ctx context.Context, key, value string) error {
	if s.m.Current() != nil {
		s.sawMemory = true
	}
	return s.MemoryStore.Save(ctx, key, value)
}

func TestPersistHappensBeforeMemory(t *testing.T) {
	store := &orderCheckingStore{MemoryStore: NewMemoryStore()}
	m := NewManager(&fakeGateway{resp: adminResponse()}, store, quiet())
	store.m = m

	_, err := m.Login(context.Background(), "ana@x.io", "pw")
	require.NoError(t, err)
	assert.False(t, store.sawMemory)
	assert.NotNil(t, m.Current())
}

type failingStore struct{ *MemoryStore }

func (failingStore) Save(context.Context, string, string) error { return errors.New("disk full") }

func TestPersistFailureLeavesMemoryUntouched(t *testing.T) {
	m := NewManager(&fakeGateway{resp: adminResponse()}, failingStore{NewMemoryStore()}, quiet())
	_, err := m.Login(context.Background(), "ana@x.io", "pw")
	require.Error(t, err)
	assert.Nil(t, m.Current())
	assert.Equal(t, model.RoleGuest, m.Role())
}

func TestLoginNon2xxIsInvalidCredentials(t *testing.T) {
	gw := &fakeGateway{err: &apperr.ServerError{Op: "login", StatusCode: 401}}
	m := NewManager(gw, NewMemoryStore(), quiet())

	_, err := m.Login(context.Background(), "ana@x.io", "bad")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, m.Err().Get(), apperr.ErrInvalidCredentials)
	assert.Nil(t, m.Current())
}

func TestLoginTransportFailureIsConnectionError(t *testing.T) {
	gw := &fakeGateway{err: &apperr.ConnectionError{Op: "login", Err: &net.OpError{Op: "dial"}}}
	m := NewManager(gw, NewMemoryStore(), quiet())

	_, err := m.Login(context.Background(), "ana@x.io", "pw")
	assert.True(t, apperr.IsConnection(err))
	assert.NotErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	gw := &fakeGateway{resp: adminResponse()}
	m := NewManager(gw, NewMemoryStore(), quiet())

	_, err := m.Login(context.Background(), "  ", "pw")
	assert.True(t, apperr.IsValidation(err))
	_, err = m.Register(context.Background(), "", "a@x.io", "pw")
	assert.True(t, apperr.IsValidation(err))
	assert.Zero(t, gw.calls)
}

func TestRegisterEstablishesIdentity(t *testing.T) {
	gw := &fakeGateway{resp: model.AuthResponse{User: model.User{ID: "u7", Name: "Bo", Email: "bo@x.io", Role: model.RoleUser}}}
	store := NewMemoryStore()
	m := NewManager(gw, store, quiet())

	id, err := m.Register(context.Background(), "Bo", "bo@x.io", "pw12345678")
	require.NoError(t, err)
	assert.Equal(t, "u7", id.ID)
	assert.Equal(t, model.RoleUser, m.Role())

	tok, _, err := store.Read(context.Background(), KeyToken)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestTokenlessLoginClearsPreviousToken(t *testing.T) {
	store := NewMemoryStore()
	first := NewManager(&fakeGateway{resp: adminResponse()}, store, quiet())
	_, err := first.Login(context.Background(), "ana@x.io", "pw")
	require.NoError(t, err)

	bo := model.AuthResponse{User: model.User{ID: "u7", Name: "Bo", Email: "bo@x.io", Role: model.RoleUser}}
	second := NewManager(&fakeGateway{resp: bo}, store, quiet())
	_, err = second.Login(context.Background(), "bo@x.io", "pw")
	require.NoError(t, err)

	third := NewManager(&fakeGateway{}, store, quiet())
	id, ok := third.Restore(context.Background())
	require.True(t, ok)
	assert.Equal(t, "u7", id.ID)
	assert.Empty(t, id.AuthToken)
	assert.Empty(t, third.Token())
}

func TestRestoreAfterLoginAndLogout(t *testing.T) {
	store := NewMemoryStore()
	first := NewManager(&fakeGateway{resp: adminResponse()}, store, quiet())
	_, err := first.Login(context.Background(), "ana@x.io", "pw")
	require.NoError(t, err)

	second := NewManager(&fakeGateway{}, store, quiet())
	id, ok := second.Restore(context.Background())
	require.True(t, ok)
	assert.Equal(t, model.Identity{ID: "u1", DisplayName: "Ana", Email: "ana@x.io", Role: model.RoleAdmin, AuthToken: "jwt-1"}, *id)

	require.NoError(t, second.Logout(context.Background()))
	require.NoError(t, second.Logout(context.Background()))

	third := NewManager(&fakeGateway{}, store, quiet())
	id, ok = third.Restore(context.Background())
	assert.False(t, ok)
	assert.Nil(t, id)
	assert.Equal(t, model.RoleGuest, third.Role())
}

func TestRestoreCorruptEntries(t *testing.T) {
	for name, raw := range map[string]string{
		"garbage":      "{not json",
		"unknown role": `{"id":"u1","name":"x","email":"x","role":"ROOT"}`,
		"no id":        `{"name":"x","role":"USER"}`,
		"guest":        `{"id":"u1","role":"GUEST"}`,
		"blank":        "   ",
	} {
		t.Run(name, func(t *testing.T) {
			store := NewMemoryStore()
			require.NoError(t, store.Save(context.Background(), KeyUser, raw))
			m := NewManager(&fakeGateway{}, store, quiet())
			id, ok := m.Restore(context.Background())
			assert.False(t, ok)
			assert.Nil(t, id)
		})
	}
}

func TestLogoutDuringLoginDiscardsResult(t *testing.T) {
	store := NewMemoryStore()
	gw := &fakeGateway{resp: adminResponse()}
	m := NewManager(gw, store, quiet())
	gw.before = func() { _ = m.Logout(context.Background()) }

	_, err := m.Login(context.Background(), "ana@x.io", "pw")
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.Nil(t, m.Current())
	_, ok, _ := store.Read(context.Background(), KeyUser)
	assert.False(t, ok)
}

func TestOnChangeHooks(t *testing.T) {
	m := NewManager(&fakeGateway{resp: adminResponse()}, NewMemoryStore(), quiet())
	var transitions []string
	m.OnChange(func(prev, next *model.Identity) {
		switch {
		case next == nil:
			transitions = append(transitions, "out")
		default:
			transitions = append(transitions, "in:"+next.ID)
		}
	})

	_, err := m.Login(context.Background(), "ana@x.io", "pw")
	require.NoError(t, err)
	require.NoError(t, m.Logout(context.Background()))
	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, []string{"in:u1", "out"}, transitions)
}
