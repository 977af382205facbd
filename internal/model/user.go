package model

import "time"

// Role tags carried in the `roles` JSON column and in the JWT "roles"
// claim. A user holds a set of tags; admins are created with both.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table. PasswordHash is a bcrypt digest and is never serialized;
// handlers define separate response types with the fields they expose.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lowercased email address.
//  PasswordHash – bcrypt hashed password.
//  Roles        – set of role tags (e.g. USER, ADMIN).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(tag string) bool {
	for _, r := range u.Roles {
		if r == tag {
			return true
		}
	}
	return false
}
