package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "studyenrollment/internal/delivery/http/helpers"
	"studyenrollment/internal/domain"
)

type contextKey string

const accountIDKey contextKey = "accountID"

var (
	errMissingAuthorization = errors.New("missing authorization header")
	errNotBearer            = errors.New("authorization scheme must be Bearer")
)

// SetAccountID returns a context carrying the acting account ID.
func SetAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFromContext returns the acting account ID. ok is false when none, or an empty one, was set.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The scheme is case-insensitive.
// The header is trimmed first, so a scheme followed by a space always carries a non-empty token.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errMissingAuthorization
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errNotBearer
	}
	return strings.TrimSpace(token), nil
}

// RequireAuth verifies the bearer token and stores the token's account as the acting account.
// Requests without a valid token get 401 with a WWW-Authenticate challenge.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			accountID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				unauthorized(w, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetAccountID(r.Context(), accountID)))
		}
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="studyenrollment"`)
	h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, message)
}
