package model

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by /usuarios/login and /usuarios/registro.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

type RoleChangeRequest struct {
	Role Role `json:"role"`
}

type StatusChangeRequest struct {
	Status OrderStatus `json:"status"`
}
