package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(srv.URL+"/", 5*time.Second, opts...)
}

func TestLoginSendsCredentials(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/usuarios/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req model.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "ana@x.io", req.Email)
		assert.Equal(t, "secret", req.Password)

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"user":{"id":"u1","name":"Ana","email":"ana@x.io","role":"ADMIN"},"token":"tok"}`)
	})

	resp, err := c.Login(context.Background(), "ana@x.io", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
	assert.Equal(t, "tok", resp.Token)
}

func TestBearerTokenAttached(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
		io.WriteString(w, `[]`)
	}, WithTokenSource(func() string { return "abc" }))

	games, err := c.ListGames(context.Background())
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestServerErrorCarriesStatusAndMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"error":"insufficient stock for Mug"}`)
	})

	_, err := c.Checkout(context.Background(), "u1", []model.CartLine{{Product: model.Product{ID: "p1"}, Quantity: 1}})
	require.Error(t, err)

	var se *apperr.ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusConflict, se.StatusCode)
	assert.Equal(t, "insufficient stock for Mug", se.Message)
	assert.Equal(t, http.StatusConflict, apperr.StatusCode(err))
}

func TestPlainTextErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})
	err := c.DeleteGame(context.Background(), "g1")
	var se *apperr.ServerError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad gateway", se.Message)
}

func TestTransportFailureIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, time.Second, WithLogger(quietLogger()))
	_, err := c.ListProducts(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.IsConnection(err))
}

func TestMalformedBodyIsConnectionError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{not json`)
	})
	_, err := c.ListOrders(context.Background())
	assert.True(t, apperr.IsConnection(err))
}

func TestCheckoutWireFormat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compras", r.URL.Path)
		assert.Equal(t, "u 1", r.URL.Query().Get("userId"))

		var lines []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lines))
		require.Len(t, lines, 1)
		assert.EqualValues(t, 2, lines[0]["quantity"])
		product := lines[0]["product"].(map[string]any)
		assert.Equal(t, "p1", product["id"])

		io.WriteString(w, `{"id":"o9","userId":"u 1","total":20,"status":"PENDING","items":[]}`)
	})

	order, err := c.Checkout(context.Background(), "u 1", []model.CartLine{
		{Product: model.Product{ID: "p1", Name: "Mug", Price: 10, Stock: 5}, Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, "o9", order.ID)
	assert.Equal(t, model.StatusPending, order.Status)
}

func TestEmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	order, err := c.Checkout(context.Background(), "u1", nil)
	require.NoError(t, err)
	assert.Empty(t, order.ID)
}

func TestRoleAndStatusBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.URL.Path {
		case "/usuarios/u2/rol":
			assert.Equal(t, "SELLER", body["role"])
			io.WriteString(w, `{"id":"u2","role":"SELLER"}`)
		case "/compras/o1/estado":
			assert.Equal(t, "PAID", body["status"])
			io.WriteString(w, `{"id":"o1","status":"pagado"}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	u, err := c.UpdateUserRole(context.Background(), "u2", model.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, u.Role)

	o, err := c.UpdateOrderStatus(context.Background(), "o1", model.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, o.Status)
}
