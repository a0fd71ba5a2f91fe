package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	DB       DBTX
	Products *ProductRepository
}

func NewOrderRepository(db DBTX, products *ProductRepository) *OrderRepository {
	return &OrderRepository{DB: db, Products: products}
}

// CheckoutLine is one requested product and quantity after merging duplicates.
type CheckoutLine struct {
	ProductID string
	Quantity  int
}

// PricedLine is a checkout line with the unit price frozen from the locked row.
type PricedLine struct {
	CheckoutLine
	UnitPrice decimal.Decimal
}

// PriceOrder checks every line against the locked stock and freezes unit prices.
// The whole order is rejected if any line cannot be served.
func PriceOrder(lines []CheckoutLine, stock map[string]model.Product) ([]PricedLine, decimal.Decimal, error) {
	total := decimal.Zero
	priced := make([]PricedLine, 0, len(lines))
	for _, l := range lines {
		p, ok := stock[l.ProductID]
		if !ok {
			return nil, decimal.Zero, fmt.Errorf("product %s: %w", l.ProductID, ErrNotFound)
		}
		if l.Quantity > p.Stock {
			return nil, decimal.Zero, fmt.Errorf("%s: requested %d, %d left: %w", p.Name, l.Quantity, p.Stock, ErrInsufficientStock)
		}
		unit := p.PriceDecimal()
		priced = append(priced, PricedLine{CheckoutLine: l, UnitPrice: unit})
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return priced, total, nil
}

// Checkout creates a PENDING order in one transaction: product rows are locked,
// stock is checked and decremented, and unit prices are copied into the items.
func (r *OrderRepository) Checkout(ctx context.Context, userID string, lines []CheckoutLine) (model.Order, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return model.Order{}, err
	}
	defer tx.Rollback(ctx)

	stock, err := r.Products.LockForCheckoutTx(ctx, tx, ids)
	if err != nil {
		return model.Order{}, err
	}
	priced, total, err := PriceOrder(lines, stock)
	if err != nil {
		return model.Order{}, err
	}

	var (
		orderID int64
		created time.Time
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total, status) VALUES ($1, $2, $3) RETURNING id, created_at`,
		userID, total.InexactFloat64(), string(model.StatusPending),
	).Scan(&orderID, &created)
	if err != nil {
		return model.Order{}, err
	}

	order := model.Order{
		ID:        strconv.FormatInt(orderID, 10),
		UserID:    userID,
		Total:     total.InexactFloat64(),
		Status:    model.StatusPending,
		CreatedAt: &created,
		Items:     make([]model.OrderItem, 0, len(priced)),
	}
	for _, l := range priced {
		var itemID int64
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase) VALUES ($1, $2, $3, $4) RETURNING id`,
			orderID, l.ProductID, l.Quantity, l.UnitPrice.InexactFloat64(),
		).Scan(&itemID)
		if err != nil {
			return model.Order{}, err
		}
		if err := r.Products.DecrementStockTx(ctx, tx, l.ProductID, l.Quantity); err != nil {
			return model.Order{}, err
		}
		order.Items = append(order.Items, model.OrderItem{
			ID:              itemID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: l.UnitPrice.InexactFloat64(),
		})
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// List returns every order with its items, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]model.Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, COALESCE(user_id, ''), total::float8, status, created_at FROM orders ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []model.Order{}
	index := map[int64]int{}
	for rows.Next() {
		o, id, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		index[id] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	items, err := r.DB.Query(ctx, `SELECT id, order_id, product_id, quantity, price_at_purchase::float8 FROM order_items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer items.Close()
	for items.Next() {
		var (
			it      model.OrderItem
			orderID int64
		)
		if err := items.Scan(&it.ID, &orderID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, items.Err()
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (model.Order, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return model.Order{}, ErrNotFound
	}
	row := r.DB.QueryRow(ctx, `SELECT id, COALESCE(user_id, ''), total::float8, status, created_at FROM orders WHERE id = $1`, n)
	o, _, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Order{}, ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}

	rows, err := r.DB.Query(ctx, `SELECT id, product_id, quantity, price_at_purchase::float8 FROM order_items WHERE order_id = $1 ORDER BY id`, n)
	if err != nil {
		return model.Order{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return model.Order{}, err
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return ErrNotFound
	}
	tag, err := r.DB.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), n)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatusTx is UpdateStatus inside a payment transaction.
func (r *OrderRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id int64, status model.OrderStatus) error {
	_, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	return err
}

func scanOrder(row pgx.Row) (model.Order, int64, error) {
	var (
		o       model.Order
		id      int64
		status  string
		created time.Time
	)
	if err := row.Scan(&id, &o.UserID, &o.Total, &status, &created); err != nil {
		return model.Order{}, 0, err
	}
	st, err := model.ParseOrderStatus(status)
	if err != nil {
		return model.Order{}, 0, fmt.Errorf("order %d: %w", id, err)
	}
	o.ID = strconv.FormatInt(id, 10)
	o.Status = st
	o.CreatedAt = &created
	o.Items = []model.OrderItem{}
	return o, id, nil
}

// MergeLines folds repeated products into one line each, in first-seen order.
func MergeLines(lines []CheckoutLine) []CheckoutLine {
	idx := map[string]int{}
	out := []CheckoutLine{}
	for _, l := range lines {
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out
}
