package core

import "time"

// User is a stored account. Role membership lives in a separate join table,
// never on the account row itself.
type User struct {
	ID             string
	Email          string
	PasswordHash   string
	EmailConfirmed bool
	CreatedAt      time.Time
}

// UserModel is the wire shape for the user-administration screen. IsAdmin is
// derived from role membership at read time.
type UserModel struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}
