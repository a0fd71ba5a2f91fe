package catalog

import (
	"context"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"

	"github.com/sirupsen/logrus"
)

type Games struct {
	*Catalog[model.Game]
}

// NewGames builds the games catalog. Writes are re-checked against the live role
// and the protection flag of the cached record, never the submitted one.
func NewGames(remote Remote[model.Game], roles policy.RoleSource, log logrus.FieldLogger) *Games {
	return &Games{New(remote, Options[model.Game]{
		Name:    "games",
		Guard:   gameGuard(roles),
		Prepare: model.Game.WithID,
	}, log)}
}

func gameGuard(roles policy.RoleSource) Guard[model.Game] {
	return func(op Op, current, next *model.Game) error {
		role := roles.Role()
		switch op {
		case OpCreate:
			return policy.Check(policy.CanCreateGame(role, next.Protection), "create "+next.Protection.String()+" game", role)
		case OpUpdate:
			stored := storedProtection(current)
			if err := policy.Check(policy.CanEditGame(role, stored), "edit "+stored.String()+" game", role); err != nil {
				return err
			}
			if next.Protection != stored {
				return policy.Check(policy.CanSetProtection(role), "change game protection", role)
			}
			return nil
		case OpDelete:
			stored := storedProtection(current)
			return policy.Check(policy.CanDeleteGame(role, stored), "delete "+stored.String()+" game", role)
		}
		return nil
	}
}

// An uncached record may be protected on the server; assume it is.
func storedProtection(current *model.Game) model.Protection {
	if current == nil {
		return model.Protected
	}
	return current.Protection
}

// SetProtection flips the flag on a cached game. ADMIN only.
func (g *Games) SetProtection(ctx context.Context, id string, p model.Protection) (model.Game, error) {
	rec, ok := g.Find(id)
	if !ok {
		return model.Game{}, g.fail(apperr.Invalid("game", "not found: "+id))
	}
	rec.Protection = p
	return g.Update(ctx, rec)
}
