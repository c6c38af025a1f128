package domain

import "time"

const RoleAdmin = "admin"

// Admin is a back-office account allowed to manage the directory.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
