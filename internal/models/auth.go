package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	User        UserInfo  `json:"user"`
}

// UserInfo is the public projection of a user embedded in auth responses.
type UserInfo struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	FullName      string   `json:"full_name"`
	Role          UserRole `json:"role"`
	AssignedClass string   `json:"assigned_class,omitempty"`
}

// JWTClaims are the custom claims carried inside access tokens.
type JWTClaims struct {
	UserID        string   `json:"user_id"`
	Username      string   `json:"username"`
	FullName      string   `json:"full_name"`
	Role          UserRole `json:"role"`
	AssignedClass string   `json:"assigned_class,omitempty"`
	jwt.RegisteredClaims
}
