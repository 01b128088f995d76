package auth

// TokenClaims is what a session token carries
type TokenClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// GoogleLoginRequest represents Google OAuth login request. Plan is set by
// the sign-up page ("basic") to start the account on the free plan.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
	Plan    string `json:"plan,omitempty"`
}

// AuthResponse is returned after a successful sign-in
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
