package auth

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"
)

// IdentityVerifier turns a client-supplied credential into a verified identity
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*GoogleUserInfo, error)
}

// GoogleOAuthService verifies Google Sign-In ID tokens
type GoogleOAuthService struct {
	clientID string
}

func NewGoogleOAuthService(clientID string) *GoogleOAuthService {
	return &GoogleOAuthService{
		clientID: clientID,
	}
}

// GoogleUserInfo represents user information from Google
type GoogleUserInfo struct {
	GoogleID  string
	Email     string
	Name      string
	AvatarURL string
}

// VerifyIDToken verifies Google ID token and returns user information
func (s *GoogleOAuthService) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUserInfo, error) {
	payload, err := idtoken.Validate(ctx, idToken, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Google ID token: %w", err)
	}
	return userInfoFromClaims(payload.Claims)
}

// userInfoFromClaims requires a subject and a Google-verified email
func userInfoFromClaims(claims map[string]interface{}) (*GoogleUserInfo, error) {
	googleID, _ := claims["sub"].(string)
	if strings.TrimSpace(googleID) == "" {
		return nil, fmt.Errorf("missing sub claim in token")
	}

	email, _ := claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("missing email claim in token")
	}

	// Some issuers send email_verified as the string "true".
	verified := false
	switch v := claims["email_verified"].(type) {
	case bool:
		verified = v
	case string:
		verified = strings.EqualFold(v, "true")
	}
	if !verified {
		return nil, fmt.Errorf("email not verified by Google")
	}

	name, _ := claims["name"].(string)
	avatarURL, _ := claims["picture"].(string)

	return &GoogleUserInfo{
		GoogleID:  googleID,
		Email:     email,
		Name:      name,
		AvatarURL: avatarURL,
	}, nil
}
