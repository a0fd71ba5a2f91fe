package repository

import (
	"context"
	"errors"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/jackc/pgx/v5"
)

type GameRepository struct {
	DB DBTX
}

func NewGameRepository(db DBTX) *GameRepository {
	return &GameRepository{DB: db}
}

const gameColumns = `id, title, description, tags, image_url, external_links, protection_status_id`

func scanGame(row pgx.Row) (model.Game, error) {
	var (
		g    model.Game
		prot int
	)
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.Tags, &g.ImageURL, &g.ExternalLinks, &prot); err != nil {
		return model.Game{}, err
	}
	g.Protection = model.Protection(prot)
	if g.Protection != model.Protected {
		g.Protection = model.Public
	}
	return g, nil
}

func (r *GameRepository) List(ctx context.Context) ([]model.Game, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+gameColumns+` FROM games ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (model.Game, error) {
	g, err := scanGame(r.DB.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Game{}, ErrNotFound
	}
	return g, err
}

func (r *GameRepository) Create(ctx context.Context, g model.Game) error {
	query := `INSERT INTO games (` + gameColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(ctx, query, g.ID, g.Title, g.Description, g.Tags, g.ImageURL, g.ExternalLinks, int(g.Protection))
	return err
}

func (r *GameRepository) Update(ctx context.Context, g model.Game) error {
	query := `UPDATE games SET title=$1, description=$2, tags=$3, image_url=$4, external_links=$5, protection_status_id=$6 WHERE id=$7`
	tag, err := r.DB.Exec(ctx, query, g.Title, g.Description, g.Tags, g.ImageURL, g.ExternalLinks, int(g.Protection), g.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GameRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
