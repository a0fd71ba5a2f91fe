package services

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/repository"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sirupsen/logrus"
)

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]repository.UserRecord
	calls []string
}

func newFakeUsers(seed ...repository.UserRecord) *fakeUsers {
	f := &fakeUsers{byID: map[string]repository.UserRecord{}}
	for _, u := range seed {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, u repository.UserRecord) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.User{}, repository.ErrEmailTaken
		}
	}
	f.byID[u.ID] = u
	return u.User, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*repository.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*repository.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "get")
	u, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.User{}
	for _, u := range f.byID {
		out = append(out, u.User)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) UpdateRole(ctx context.Context, id string, role model.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update role")
	u, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role = role
	f.byID[id] = u
	return nil
}

func (f *fakeUsers) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateToken(u model.User) (string, error) { return "tok-" + u.ID, nil }

type fakeGames struct {
	games   map[string]model.Game
	updates int
}

func (f *fakeGames) List(ctx context.Context) ([]model.Game, error) {
	out := []model.Game{}
	for _, g := range f.games {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGames) GetByID(ctx context.Context, id string) (model.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return model.Game{}, repository.ErrNotFound
	}
	return g, nil
}

func (f *fakeGames) Create(ctx context.Context, g model.Game) error {
	f.games[g.ID] = g
	return nil
}

func (f *fakeGames) Update(ctx context.Context, g model.Game) error {
	f.updates++
	f.games[g.ID] = g
	return nil
}

func (f *fakeGames) Delete(ctx context.Context, id string) error {
	delete(f.games, id)
	return nil
}

type fakeProducts struct {
	products map[string]model.Product
}

func (f *fakeProducts) List(ctx context.Context) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) GetByID(ctx context.Context, id string) (model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Create(ctx context.Context, p model.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeProducts) Update(ctx context.Context, p model.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return repository.ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(ctx context.Context, id string) error {
	delete(f.products, id)
	return nil
}

// fakeOrders prices checkouts with repository.PriceOrder against an in-memory stock.
type fakeOrders struct {
	stock  map[string]model.Product
	orders map[string]model.Order
	next   int
	sent   []repository.CheckoutLine
}

func (f *fakeOrders) Checkout(ctx context.Context, userID string, lines []repository.CheckoutLine) (model.Order, error) {
	f.sent = lines
	_, total, err := repository.PriceOrder(lines, f.stock)
	if err != nil {
		return model.Order{}, err
	}
	for _, l := range lines {
		p := f.stock[l.ProductID]
		p.Stock -= l.Quantity
		f.stock[l.ProductID] = p
	}
	f.next++
	o := model.Order{ID: strconv.Itoa(f.next), UserID: userID, Total: total.InexactFloat64(), Status: model.StatusPending}
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrders) List(ctx context.Context) ([]model.Order, error) {
	out := []model.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrders) GetByID(ctx context.Context, id string) (model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	o, ok := f.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	f.orders[id] = o
	return nil
}

type fakePayments struct {
	pending map[int64]*repository.Payment
	created []string
}

func (f *fakePayments) PendingByOrder(ctx context.Context, orderID int64) (*repository.Payment, error) {
	return f.pending[orderID], nil
}

func (f *fakePayments) CreatePending(ctx context.Context, orderID, amount int64, provider, providerRef string, payload []byte) (int64, error) {
	f.created = append(f.created, providerRef)
	f.pending[orderID] = &repository.Payment{OrderID: orderID, Amount: amount, Provider: provider, ProviderRef: providerRef, Status: repository.PaymentPending}
	return int64(len(f.created)), nil
}

type fakeSnap struct {
	req *snap.Request
	err *midtrans.Error
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &snap.Response{Token: "snap-token", RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token"}, nil
}

type settlement struct {
	ref           string
	paymentStatus string
	orderID       int64
	orderStatus   model.OrderStatus
}

type fakeSettler struct {
	settled map[string]bool
	log     []settlement
}

func (f *fakeSettler) Settle(ctx context.Context, ref, paymentStatus string, orderID int64, orderStatus model.OrderStatus, payload []byte) (bool, error) {
	if f.settled[ref] {
		return false, nil
	}
	f.settled[ref] = true
	f.log = append(f.log, settlement{ref, paymentStatus, orderID, orderStatus})
	return true, nil
}
