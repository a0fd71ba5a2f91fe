package gateway

import (
	"context"
	"net/http"
	"net/url"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"
)

// ---- usuarios ----

func (c *Client) Login(ctx context.Context, email, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, "login", http.MethodPost, "/usuarios/login", nil,
		model.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, name, email, password string) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, "register", http.MethodPost, "/usuarios/registro", nil,
		model.RegisterRequest{Name: name, Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := c.do(ctx, "list users", http.MethodGet, "/usuarios", nil, nil, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "delete user", http.MethodDelete, "/usuarios/"+escape(id), nil, nil, nil)
}

func (c *Client) UpdateUserRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	var out model.User
	err := c.do(ctx, "update user role", http.MethodPut, "/usuarios/"+escape(id)+"/rol", nil,
		model.RoleChangeRequest{Role: role}, &out)
	return out, err
}

// ---- juegos ----

func (c *Client) ListGames(ctx context.Context) ([]model.Game, error) {
	out := []model.Game{}
	err := c.do(ctx, "list games", http.MethodGet, "/juegos", nil, nil, &out)
	return out, err
}

func (c *Client) CreateGame(ctx context.Context, g model.Game) (model.Game, error) {
	var out model.Game
	err := c.do(ctx, "create game", http.MethodPost, "/juegos", nil, g, &out)
	return out, err
}

func (c *Client) UpdateGame(ctx context.Context, g model.Game) (model.Game, error) {
	var out model.Game
	err := c.do(ctx, "update game", http.MethodPut, "/juegos/"+escape(g.ID), nil, g, &out)
	return out, err
}

func (c *Client) DeleteGame(ctx context.Context, id string) error {
	return c.do(ctx, "delete game", http.MethodDelete, "/juegos/"+escape(id), nil, nil, nil)
}

// ---- productos ----

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	out := []model.Product{}
	err := c.do(ctx, "list products", http.MethodGet, "/productos", nil, nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	var out model.Product
	err := c.do(ctx, "create product", http.MethodPost, "/productos", nil, p, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	var out model.Product
	err := c.do(ctx, "update product", http.MethodPut, "/productos/"+escape(p.ID), nil, p, &out)
	return out, err
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, "delete product", http.MethodDelete, "/productos/"+escape(id), nil, nil, nil)
}

// ---- compras ----

// Checkout submits the full line snapshot for userID. The backend is the
// authority on stock and may reject the whole order.
func (c *Client) Checkout(ctx context.Context, userID string, lines []model.CartLine) (model.Order, error) {
	var out model.Order
	q := url.Values{"userId": {userID}}
	err := c.do(ctx, "checkout", http.MethodPost, "/compras", q, lines, &out)
	return out, err
}

func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	out := []model.Order{}
	err := c.do(ctx, "list orders", http.MethodGet, "/compras", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error) {
	var out model.Order
	err := c.do(ctx, "update order status", http.MethodPut, "/compras/"+escape(id)+"/estado", nil,
		model.StatusChangeRequest{Status: status}, &out)
	return out, err
}

// Games adapts the client to the catalog remote contract.
func (c *Client) Games() GameRemote { return GameRemote{c} }

func (c *Client) Products() ProductRemote { return ProductRemote{c} }

type GameRemote struct{ c *Client }

func (r GameRemote) List(ctx context.Context) ([]model.Game, error) { return r.c.ListGames(ctx) }
func (r GameRemote) Create(ctx context.Context, g model.Game) (model.Game, error) {
	return r.c.CreateGame(ctx, g)
}
func (r GameRemote) Update(ctx context.Context, g model.Game) (model.Game, error) {
	return r.c.UpdateGame(ctx, g)
}
func (r GameRemote) Delete(ctx context.Context, id string) error { return r.c.DeleteGame(ctx, id) }

type ProductRemote struct{ c *Client }

func (r ProductRemote) List(ctx context.Context) ([]model.Product, error) {
	return r.c.ListProducts(ctx)
}
func (r ProductRemote) Create(ctx context.Context, p model.Product) (model.Product, error) {
	return r.c.CreateProduct(ctx, p)
}
func (r ProductRemote) Update(ctx context.Context, p model.Product) (model.Product, error) {
	return r.c.UpdateProduct(ctx, p)
}
func (r ProductRemote) Delete(ctx context.Context, id string) error {
	return r.c.DeleteProduct(ctx, id)
}
