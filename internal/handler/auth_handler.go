package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"talentx/internal/app/message"
	"talentx/internal/app/user"
	"talentx/internal/pkg/auth/jwt"
	"talentx/internal/pkg/errs"
	"talentx/internal/pkg/logx"
	"talentx/internal/pkg/req"
	"talentx/internal/pkg/resp"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies user credentials and issues a JWT token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Email = strings.TrimSpace(input.Email)
		if input.Email == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		u, err := deps.Store.GetUserByEmail(r.Context(), input.Email)
		if err != nil {
			if errors.Is(err, message.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageUnavailable, err))
			return
		}

		if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)) != nil {
			logx.Info("login failed: password mismatch", "user_id", u.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if u.Status == user.StatusDisabled {
			resp.RespondError(w, r, errs.NewError(errs.ErrAccountDisabled))
			return
		}

		payload := &jwt.Payload{
			ID:    u.ID,
			Email: u.Email,
			Role:  u.Role,
		}

		tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.UserIdentityExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token at login")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     jwt.AccessTokenCookie,
			Value:    tokenString,
			Path:     "/",
			MaxAge:   int(jwt.UserIdentityExpiration / time.Second),
			HttpOnly: true,
			Secure:   !deps.Config.IsDevelopment(),
			SameSite: http.SameSiteLaxMode,
		})

		resp.RespondSuccess(w, r, map[string]any{
			"token": tokenString,
			"user":  u,
		})
	}
}

// HandleMe returns the caller's identity and, when the account still exists, its profile.
func HandleMe(deps *AppDeps) jwt.IdentityHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, id jwt.Identity) {
		data := map[string]any{"identity": id}

		u, err := deps.Store.GetUser(r.Context(), id.ID)
		switch {
		case err == nil:
			data["user"] = u
		case errors.Is(err, message.ErrNotFound):
		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrStorageUnavailable, err))
			return
		}

		resp.RespondSuccess(w, r, data)
	}
}
