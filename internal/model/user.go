// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Users are created at signup (or on first GitHub sign-in) and are never
// edited afterwards. PasswordHash is empty for accounts that only ever
// signed in through GitHub; such accounts cannot use password signin.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName is what other people see for this user: the name when one was
// given at signup, the email otherwise.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
