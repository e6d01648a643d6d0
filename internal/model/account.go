// Package model defines the data structures used throughout the application.
// JSON tags follow the wire format the web client already speaks (snake_case).
package model

import "time"

// Role is the access level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Account is a registered participant ("wizard").
//
// Password is stored and compared in plain text. It is only serialized on the
// admin listing; every other response goes through Public().
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Password  string    `json:"password,omitempty"`
	Role      Role      `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Public returns a copy of the account without the password.
func (a Account) Public() Account {
	a.Password = ""
	return a
}

// Directory returns the id/name/role projection used by the public directory.
func (a Account) Directory() Account {
	return Account{ID: a.ID, Name: a.Name, Role: a.Role}
}

// IsAdmin reports whether the account has the admin role.
func (a Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AccountUpdate is the enumerated patch an admin may apply to an account.
// Nil fields are left untouched.
type AccountUpdate struct {
	Name     *string
	Password *string
	Role     *Role
}

// Empty reports whether the patch changes nothing.
func (u AccountUpdate) Empty() bool {
	return u.Name == nil && u.Password == nil && u.Role == nil
}
