package midtrans

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// NewSnapClient returns a Snap client for serverKey. Production keys select the
// production environment; everything else talks to the sandbox.
func NewSnapClient(serverKey string, production bool) *snap.Client {
	var client snap.Client

	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	client.New(serverKey, env)

	return &client
}

// Signature is the notification signature_key Midtrans computes for a payload.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	hash := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(hash[:])
}

func VerifySignature(
	orderID string,
	statusCode string,
	grossAmount string,
	signature string,
	serverKey string,
) bool {
	if serverKey == "" || signature == "" {
		return false
	}
	expected := Signature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}
