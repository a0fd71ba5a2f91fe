package services

import (
	"context"
	"testing"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededGames() *fakeGames {
	return &fakeGames{games: map[string]model.Game{
		"g1": {ID: "g1", Title: "Catan", Description: "trade", Protection: model.Public},
		"g2": {ID: "g2", Title: "Go", Description: "stones", Protection: model.Protected},
	}}
}

func TestGameWritesFollowStoredProtection(t *testing.T) {
	user := Caller{UserID: "u2", Role: model.RoleUser}
	cases := []struct {
		name    string
		caller  Caller
		id      string
		next    model.Protection
		allowed bool
	}{
		{"user edits public", user, "g1", model.Public, true},
		{"user edits protected", user, "g2", model.Protected, false},
		{"user claims public on protected", user, "g2", model.Public, false},
		{"seller protects public", Caller{Role: model.RoleSeller}, "g1", model.Protected, false},
		{"admin protects public", admin, "g1", model.Protected, true},
		{"admin edits protected", admin, "g2", model.Protected, true},
		{"guest edits public", Caller{}, "g1", model.Public, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			games := seededGames()
			s := NewGameService(games, quiet())
			_, err := s.Update(context.Background(), tc.caller, tc.id, model.Game{Title: "New", Description: "d", Protection: tc.next})
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, 1, games.updates)
				assert.Equal(t, tc.next, games.games[tc.id].Protection)
			} else {
				assert.ErrorIs(t, err, apperr.ErrAuthorizationDenied)
				assert.Zero(t, games.updates)
			}
		})
	}
}

func TestUpdateKeepsProtectionWhenOmitted(t *testing.T) {
	games := seededGames()
	s := NewGameService(games, quiet())
	g, err := s.Update(context.Background(), admin, "g2", model.Game{Title: "Go", Description: "board"})
	require.NoError(t, err)
	assert.Equal(t, model.Protected, g.Protection)
}

func TestCreateGame(t *testing.T) {
	games := seededGames()
	s := NewGameService(games, quiet())

	g, err := s.Create(context.Background(), Caller{Role: model.RoleUser}, model.Game{Title: "Dixit", Description: "cards"})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, model.Public, g.Protection)
	assert.Contains(t, games.games, g.ID)

	_, err = s.Create(context.Background(), Caller{Role: model.RoleSeller}, model.Game{Title: "X", Description: "y", Protection: model.Protected})
	assert.ErrorIs(t, err, apperr.ErrAuthorizationDenied)

	_, err = s.Create(context.Background(), admin, model.Game{Description: "no title"})
	assert.True(t, apperr.IsValidation(err))
}

func TestDeleteGame(t *testing.T) {
	games := seededGames()
	s := NewGameService(games, quiet())

	assert.ErrorIs(t, s.Delete(context.Background(), Caller{Role: model.RoleManager}, "g2"), apperr.ErrAuthorizationDenied)
	require.NoError(t, s.Delete(context.Background(), Caller{Role: model.RoleManager}, "g1"))
	assert.NotContains(t, games.games, "g1")
}
