package identity

import "time"

// User represents a registered wallet owner.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash []byte
	BVN          string
	CreatedAt    time.Time
}

// Credentials carried by signup and login requests.
type Credentials struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	BVN       string
}
