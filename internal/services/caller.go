package services

import "github.com/estaidesoriginal/biblioteca-G/internal/model"

// Caller is the authenticated principal of a request. The zero value is a guest.
type Caller struct {
	UserID string
	Role   model.Role
}
