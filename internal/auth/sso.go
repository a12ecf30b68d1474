package auth

import (
	"context"
	"fmt"
	"net/http"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (userID string, valid bool, err error)
}

// SSOResolver delegates token checks to the SSO service. The SSO user id is
// the gamer uid.
type SSOResolver struct {
	client TokenValidator
}

func NewSSOResolver(client TokenValidator) *SSOResolver {
	return &SSOResolver{client: client}
}

func (s *SSOResolver) Resolve(r *http.Request) (Identity, error) {
	token := credential(r)
	if token == "" {
		return Identity{}, ErrNoCredentials
	}

	userID, valid, err := s.client.ValidateToken(r.Context(), token)
	if err != nil {
		return Identity{}, fmt.Errorf("auth: sso: %w", err)
	}
	if !valid || userID == "" {
		return Identity{}, ErrInvalidCredentials
	}

	return Identity{UID: userID}, nil
}
