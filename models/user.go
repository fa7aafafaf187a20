package models

import "time"

// User represents an account as returned by the server
type User struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Verified  bool       `json:"verified,omitempty"`
}

// UpdateUserParams holds the user fields that can be changed. Empty fields are left untouched.
type UpdateUserParams struct {
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Apply merges the non-empty params into u
func (p UpdateUserParams) Apply(u User) User {
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Username != "" {
		u.Username = p.Username
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	return u
}

// SignInParams is the credential pair exchanged for a bearer token
type SignInParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpParams registers a new account
type SignUpParams struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the sign-in result: the bearer token plus a user summary
type AuthResponse struct {
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Verified  bool      `json:"verified"`
}
