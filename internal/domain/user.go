package domain

// User is an account held by the external auth service.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Credentials is the body of a login request.
type Credentials struct {
	Email    string `json:"email" validate:"trimmed_required,shopper_email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the body of a signup request.
type SignupRequest struct {
	Name     string `json:"name" validate:"trimmed_required"`
	Email    string `json:"email" validate:"trimmed_required,shopper_email"`
	Password string `json:"password" validate:"required,min=8"`
}

// AuthResponse is returned by signup and login. Token is absent when the
// auth service defers sign-in (e.g. pending email confirmation).
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token,omitempty"`
}

// NewsletterSubscription is the body of a newsletter signup.
type NewsletterSubscription struct {
	Email string `json:"email" validate:"trimmed_required,shopper_email"`
}
