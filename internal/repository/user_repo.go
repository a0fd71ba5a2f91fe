package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserRecord is a user row including the bcrypt hash, which never leaves the server.
type UserRecord struct {
	model.User
	PasswordHash string
}

type UserRepository struct {
	DB DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u UserRecord) (model.User, error) {
	var created time.Time
	query := `INSERT INTO users (id, name, email, password_hash, role) VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.DB.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Role.String()).Scan(&created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, err
	}
	out := u.User
	out.CreatedAt = &created
	return out, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	query := `SELECT id, name, email, password_hash, role, created_at FROM users WHERE lower(email) = lower($1)`
	return r.scanOne(r.DB.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	query := `SELECT id, name, email, password_hash, role, created_at FROM users WHERE id = $1`
	return r.scanOne(r.DB.QueryRow(ctx, query, id))
}

func (r *UserRepository) scanOne(row pgx.Row) (*UserRecord, error) {
	var (
		u       UserRecord
		role    string
		created time.Time
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	parsed, err := model.ParseRole(role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	u.Role = parsed
	u.CreatedAt = &created
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, email, role, created_at FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.User{}
	for rows.Next() {
		var (
			u       model.User
			role    string
			created time.Time
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &role, &created); err != nil {
			return nil, err
		}
		if u.Role, err = model.ParseRole(role); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.ID, err)
		}
		u.CreatedAt = &created
		list = append(list, u)
	}
	return list, rows.Err()
}

func (r *UserRepository) UpdateRole(ctx context.Context, id string, role model.Role) error {
	tag, err := r.DB.Exec(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
