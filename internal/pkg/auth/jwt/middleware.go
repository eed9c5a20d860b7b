package jwt

import (
	"net/http"
	"strings"

	"talentx/internal/app/user"
	"talentx/internal/pkg/errs"
	"talentx/internal/pkg/logx"
	"talentx/internal/pkg/resp"
)

// AccessTokenCookie is the cookie login sets for browser clients.
const AccessTokenCookie = "access_token"

// IdentityHandlerFunc is an HTTP handler that receives the caller's verified identity.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, id Identity)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// TokenFromRequest returns the bearer token, falling back to the access_token cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	if token, ok := BearerToken(r); ok {
		return token, true
	}

	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return "", false
	}
	return cookie.Value, cookie.Value != ""
}

// Require verifies the request token and calls next with the resulting identity.
// Requests without a valid token are answered with 401 and never reach next.
func Require(secretKey string, next IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := TokenFromRequest(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		identity, err := Verify(tokenString, secretKey)
		if err != nil {
			logx.Warn("Rejected request with invalid JWT", "error", err.Error(), "path", r.URL.Path)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		next(w, r, identity)
	}
}

// RequireRole is Require with a minimum role. Callers ranked below minRole get 403.
func RequireRole(secretKey string, minRole user.Role, next IdentityHandlerFunc) http.HandlerFunc {
	return Require(secretKey, func(w http.ResponseWriter, r *http.Request, id Identity) {
		if !id.Role.Satisfies(minRole) {
			logx.Warn("Rejected request below required role", "user_id", id.ID, "role", string(id.Role), "required", string(minRole))
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}
		next(w, r, id)
	})
}
