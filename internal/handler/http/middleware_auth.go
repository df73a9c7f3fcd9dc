package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-list-keeper/internal/logger"
	"github.com/MKhiriev/go-list-keeper/internal/service"
	"github.com/MKhiriev/go-list-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It reads the bearer token from the "Authorization" header, validates it via
// [service.AuthService.ParseToken] and stores the subject in the request
// context under [utils.UserIDCtxKey]. Requests without a valid token are
// rejected with 401 before any handler runs. The websocket handshake passes
// through here as well.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteError(w, http.StatusUnauthorized, ErrEmptyAuthorizationHeader.Error())
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			utils.WriteError(w, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrTokenIsExpired):
				log.Err(err).Msg("token expired")
				utils.WriteError(w, http.StatusUnauthorized, service.ErrTokenIsExpired.Error())
			default:
				log.Err(err).Msg("error occurred during parsing token")
				utils.WriteError(w, http.StatusUnauthorized, "")
			}
			return
		}

		userLog := log.ForUser(token.UserID)
		ctx = utils.WithUserID(userLog.WithContext(ctx), token.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromRequest returns the subject stored by auth.
func userIDFromRequest(r *http.Request) (string, error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return "", ErrNoUserIDInContext
	}
	return userID, nil
}
