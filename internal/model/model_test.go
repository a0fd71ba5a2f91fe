package model

import (
	"encoding/json"
	"testing"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("manager")
	require.NoError(t, err)
	assert.Equal(t, RoleManager, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestUserRoleJSON(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","name":"Ana","email":"a@x.io","role":"SELLER"}`), &u))
	assert.Equal(t, RoleSeller, u.Role)

	// the backend omits role for plain users
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u2","name":"Bo","email":"b@x.io","role":""}`), &u))
	assert.Equal(t, RoleUser, u.Role)

	b, err := json.Marshal(User{ID: "u3", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"role":"ADMIN"`)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"ROOT"}`), &u))
}

func TestGameWireMapping(t *testing.T) {
	raw := `{"id":"g1","title":"Hades","description":"roguelike","tags":["indie"],
		"image_url":"http://img","external_links":["http://steam"],"protection_status_id":1}`
	var g Game
	require.NoError(t, json.Unmarshal([]byte(raw), &g))
	assert.Equal(t, Protected, g.Protection)
	require.NotNil(t, g.ImageURL)
	assert.Equal(t, "http://img", *g.ImageURL)
	assert.Equal(t, []string{"http://steam"}, g.ExternalLinks)

	var bare Game
	require.NoError(t, json.Unmarshal([]byte(`{"id":"g2","title":"x","description":"y"}`), &bare))
	assert.Equal(t, Public, bare.Protection)
	assert.NotNil(t, bare.Tags)

	out, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"protection_status_id":1`)
	assert.Contains(t, string(out), `"external_links":["http://steam"]`)
}

func TestGameWithID(t *testing.T) {
	g := Game{Title: "t", Description: "d"}.WithID()
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, Public, g.Protection)

	kept := Game{ID: "fixed", Protection: Protected}.WithID()
	assert.Equal(t, "fixed", kept.ID)
	assert.Equal(t, Protected, kept.Protection)
}

func TestGameMatches(t *testing.T) {
	g := Game{Title: "Hollow Knight", Description: "Metroidvania", Tags: []string{"Indie", "2D"}}
	assert.True(t, g.Matches("hollow"))
	assert.True(t, g.Matches("METROID"))
	assert.True(t, g.Matches("indie"))
	assert.True(t, g.Matches(""))
	assert.False(t, g.Matches("shooter"))
}

func TestProductValidate(t *testing.T) {
	assert.NoError(t, Product{Name: "Mug", Price: 0, Stock: 0}.Validate())

	err := Product{Name: " ", Price: 1}.Validate()
	assert.True(t, apperr.IsValidation(err))
	assert.True(t, apperr.IsValidation(Product{Name: "x", Price: -1}.Validate()))
	assert.True(t, apperr.IsValidation(Product{Name: "x", Stock: -3}.Validate()))
}

func TestParsePriceAndStock(t *testing.T) {
	p, err := ParsePrice("19,995")
	require.NoError(t, err)
	assert.Equal(t, 20.0, p)

	_, err = ParsePrice("abc")
	assert.True(t, apperr.IsValidation(err))

	n, err := ParseStock(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	_, err = ParseStock("-1")
	assert.True(t, apperr.IsValidation(err))
}

func TestCartTotal(t *testing.T) {
	lines := []CartLine{
		{Product: Product{ID: "a", Price: 10.10}, Quantity: 3},
		{Product: Product{ID: "b", Price: 15.20}, Quantity: 1},
	}
	assert.Equal(t, "45.5", CartTotal(lines).String())
	assert.True(t, CartTotal(nil).IsZero())
}

func TestSubtotalKeepsSubCentPrice(t *testing.T) {
	l := CartLine{Product: Product{ID: "a", Price: 0.125}, Quantity: 3}
	assert.Equal(t, "0.375", l.Subtotal().String())
	assert.Equal(t, "0.375", CartTotal([]CartLine{l}).String())
	assert.Equal(t, "0.125", l.Product.PriceDecimal().String())
}

func TestParseOrderStatus(t *testing.T) {
	for in, want := range map[string]OrderStatus{
		"pagado":    StatusPaid,
		"PENDING":   StatusPending,
		"cancelado": StatusCanceled,
	} {
		got, err := ParseOrderStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseOrderStatus("shipped")
	assert.Error(t, err)

	var o Order
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","userId":"u","total":5,"status":"pendiente"}`), &o))
	assert.Equal(t, StatusPending, o.Status)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitList("a, b,,c "))
	assert.Equal(t, []string{}, SplitList(""))
}
