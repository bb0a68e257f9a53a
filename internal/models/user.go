package models

import "time"

// User is the account document persisted in the users collection.
// The bcrypt hash never leaves the API.
type User struct {
	ID             string    `bson:"_id" json:"id"`
	Username       string    `bson:"username" json:"username"`
	Email          string    `bson:"email" json:"email"`
	HashedPassword string    `bson:"hashedPassword" json:"-"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by both register and login.
type TokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
