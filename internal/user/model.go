package user

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	City         string    `json:"city,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest payload of registration.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" example:"budi"`
	Email    string `json:"email"    example:"budi@example.com"`
	Password string `json:"password" example:"rahasia123"`
	City     string `json:"city"     example:"Bandung"`
}
