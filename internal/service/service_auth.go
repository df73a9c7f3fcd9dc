package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
	"github.com/MKhiriev/go-list-keeper/models"
)

// authService is the concrete implementation of AuthService. Identity
// management is out of scope for the document server: it only signs and
// verifies HS256 bearer tokens.
type authService struct {
	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService populated with security
// parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only after
// construction.
func NewAuthService(cfg config.ServerApp, logger *logger.Logger) AuthService {
	return &authService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		logger:        logger,
	}
}

// IssueToken generates a signed JWT for userID.
//
// Returns ErrInvalidInput if userID is empty, or ErrTokenCreationFailed
// wrapping the signing error.
func (a *authService) IssueToken(ctx context.Context, userID string) (models.Token, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		return models.Token{}, ErrInvalidInput
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, userID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Str("func", "authService.IssueToken").Str("user_id", userID).Msg("token creation failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates tokenString and returns the parsed token.
//
// Returns ErrTokenIsExpired for a well-formed but expired token and
// ErrInvalidToken for anything else that fails verification.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	log := logger.FromContext(ctx)

	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Token{}, ErrTokenIsExpired
		}
		log.Err(err).Str("func", "authService.ParseToken").Msg("token verification failed")
		return models.Token{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return token, nil
}
