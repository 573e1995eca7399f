package auth

import "time"

type Role string

const (
	RoleHomeowner Role = "homeowner"
	RoleProvider  Role = "provider"
)

// User is the domain representation of an authenticated user. No JSON
// annotations so it can be reused by different presentation layers.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignupRequest contains user registration data supplied by callers.
// Providers additionally declare what they offer and where.
type SignupRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Phone        string   `json:"phone"`
	Role         Role     `json:"role"`
	ServiceTypes []string `json:"serviceTypes"`
	Address      string   `json:"address"`
}

// LoginRequest contains user login credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
