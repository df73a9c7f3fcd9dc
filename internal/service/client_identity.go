package service

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-list-keeper/internal/utils"
)

type tokenIdentityProvider struct {
	token string
}

// NewTokenIdentityProvider returns an [IdentityProvider] that reads the user
// identifier from the subject of a bearer token. The signature is verified
// by the document server, not here.
func NewTokenIdentityProvider(token string) IdentityProvider {
	return &tokenIdentityProvider{token: strings.TrimSpace(token)}
}

func (p *tokenIdentityProvider) UserID() (string, error) {
	if p.token == "" {
		return "", ErrNoUserID
	}

	userID, err := utils.ParseUserIDFromJWT(p.token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoUserID, err)
	}
	return userID, nil
}
