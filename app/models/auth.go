package models

// AuthRequest carries login credentials.
type AuthRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the opaque bearer token issued on login.
type AuthResponse struct {
	Token string `json:"token"`
}

// RegisterRequest creates a new staff account.
type RegisterRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}
