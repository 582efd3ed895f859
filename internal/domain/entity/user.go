package entity

import (
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User is the aggregate root for the identity domain.
// Password holds a bcrypt hash, or plaintext for records that predate hashing;
// it is empty for accounts that only sign in through Google.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	GoogleID  string
	Role      Role
	CreatedAt time.Time
}

// PublicUser is the only user shape that leaves the server.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
