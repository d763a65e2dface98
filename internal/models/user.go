package models

// User is the session view of an account.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Credential is a persisted account record. Password is stored as entered.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
}

func (c Credential) User() User {
	return User{Username: c.Username, Email: c.Email}
}
