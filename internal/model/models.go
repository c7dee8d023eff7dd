package model

import "time"

// User owns datasets. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the struct for POST /api/v1/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Preview is a bounded, JSON-ready slice of a dataset's rows
type Preview struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	Limit    int              `json:"limit"`
	Returned int              `json:"returned"`
}
