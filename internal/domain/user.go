package domain

import "time"

// User is the opaque identity referenced by songs and styles. Credential
// handling lives outside this service; only the identity surface is modeled.
type User struct {
	ID        string
	Username  string
	Email     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
