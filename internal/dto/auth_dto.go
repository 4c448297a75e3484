package dto

// LoginRequest authenticates a user by email alone. Password auth is out of
// scope for this system; the route mirrors the legacy surface.
type LoginRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

// LoginResponse reports a successful login. Token lets JSON clients call
// protected routes without a session cookie.
type LoginResponse struct {
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	Token     string `json:"token,omitempty"`
}
