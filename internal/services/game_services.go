package services

import (
	"context"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"

	"github.com/sirupsen/logrus"
)

type GameStore interface {
	List(ctx context.Context) ([]model.Game, error)
	GetByID(ctx context.Context, id string) (model.Game, error)
	Create(ctx context.Context, g model.Game) error
	Update(ctx context.Context, g model.Game) error
	Delete(ctx context.Context, id string) error
}

// GameService gates game writes with the protection stored in the database,
// never the one sent by the caller.
type GameService struct {
	Games GameStore
	log   logrus.FieldLogger
}

func NewGameService(games GameStore, log logrus.FieldLogger) *GameService {
	return &GameService{Games: games, log: log.WithField("component", "games")}
}

func (s *GameService) List(ctx context.Context) ([]model.Game, error) {
	return s.Games.List(ctx)
}

func (s *GameService) Get(ctx context.Context, id string) (model.Game, error) {
	return s.Games.GetByID(ctx, id)
}

func (s *GameService) Create(ctx context.Context, caller Caller, g model.Game) (model.Game, error) {
	g = g.WithID()
	if err := g.Validate(); err != nil {
		return model.Game{}, err
	}
	if err := policy.Check(policy.CanCreateGame(caller.Role, g.Protection), "create "+g.Protection.String()+" game", caller.Role); err != nil {
		return model.Game{}, err
	}
	if err := s.Games.Create(ctx, g); err != nil {
		return model.Game{}, err
	}
	s.log.WithFields(logrus.Fields{"game_id": g.ID, "by": caller.UserID}).Info("game created")
	return g, nil
}

// Update replaces the game. Changing the protection flag additionally needs ADMIN.
func (s *GameService) Update(ctx context.Context, caller Caller, id string, g model.Game) (model.Game, error) {
	current, err := s.Games.GetByID(ctx, id)
	if err != nil {
		return model.Game{}, err
	}
	g.ID = id
	if g.Protection != model.Protected && g.Protection != model.Public {
		g.Protection = current.Protection
	}
	if err := g.Validate(); err != nil {
		return model.Game{}, err
	}
	if err := policy.Check(policy.CanEditGame(caller.Role, current.Protection), "edit "+current.Protection.String()+" game", caller.Role); err != nil {
		return model.Game{}, err
	}
	if g.Protection != current.Protection {
		if err := policy.Check(policy.CanSetProtection(caller.Role), "change game protection", caller.Role); err != nil {
			return model.Game{}, err
		}
	}
	if err := s.Games.Update(ctx, g); err != nil {
		return model.Game{}, err
	}
	s.log.WithFields(logrus.Fields{"game_id": id, "by": caller.UserID}).Info("game updated")
	return g, nil
}

func (s *GameService) Delete(ctx context.Context, caller Caller, id string) error {
	current, err := s.Games.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Check(policy.CanDeleteGame(caller.Role, current.Protection), "delete "+current.Protection.String()+" game", caller.Role); err != nil {
		return err
	}
	if err := s.Games.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"game_id": id, "by": caller.UserID}).Info("game deleted")
	return nil
}
