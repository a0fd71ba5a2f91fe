package repository

import (
	"context"
	"errors"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/jackc/pgx/v5"
)

type ProductRepository struct {
	DB DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{DB: db}
}

const productColumns = `id, name, description, price::float8, categories, image_url, stock`

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Categories, &p.ImageURL, &p.Stock)
	return p, err
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (model.Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Product{}, ErrNotFound
	}
	return p, err
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) error {
	query := `INSERT INTO products (id, name, description, price, categories, image_url, stock) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.Exec(ctx, query, p.ID, p.Name, p.Description, p.PriceDecimal().InexactFloat64(), p.Categories, p.ImageURL, p.Stock)
	return err
}

func (r *ProductRepository) Update(ctx context.Context, p model.Product) error {
	query := `UPDATE products SET name=$1, description=$2, price=$3, categories=$4, image_url=$5, stock=$6 WHERE id=$7`
	tag, err := r.DB.Exec(ctx, query, p.Name, p.Description, p.PriceDecimal().InexactFloat64(), p.Categories, p.ImageURL, p.Stock, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// LockForCheckoutTx reads the given products with a row lock held until tx ends.
func (r *ProductRepository) LockForCheckoutTx(ctx context.Context, tx pgx.Tx, ids []string) (map[string]model.Product, error) {
	rows, err := tx.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *ProductRepository) DecrementStockTx(ctx context.Context, tx pgx.Tx, id string, qty int) error {
	tag, err := tx.Exec(ctx, `UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1`, qty, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}
