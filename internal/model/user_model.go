package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of session roles. RoleGuest means "no identity".
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleSeller
	RoleManager
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleGuest:   "GUEST",
	RoleUser:    "USER",
	RoleSeller:  "SELLER",
	RoleManager: "MANAGER",
	RoleAdmin:   "ADMIN",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole accepts the upper-case names used on the wire, case-insensitively.
func ParseRole(s string) (Role, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return RoleGuest, fmt.Errorf("unknown role %q", s)
}

// Authenticated reports whether the role belongs to a logged-in identity.
func (r Role) Authenticated() bool {
	return r != RoleGuest
}

func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*r = RoleUser
		return nil
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is the remote account record, also used as the persisted session identity.
type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Token     string     `json:"token,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Identity is the authenticated session owner.
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	AuthToken   string `json:"token,omitempty"`
}

// IdentityFromUser builds the session identity for a user returned by login/register.
func IdentityFromUser(u User, token string) Identity {
	if token == "" {
		token = u.Token
	}
	return Identity{
		ID:          u.ID,
		DisplayName: u.Name,
		Email:       u.Email,
		Role:        u.Role,
		AuthToken:   token,
	}
}
