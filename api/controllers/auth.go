package controllers

import (
	"net/http"
	"time"

	"github.com/adolfosa/feria-manager/api/middleware"
	"github.com/adolfosa/feria-manager/api/responses"
	"github.com/adolfosa/feria-manager/api/validators"
	authsvc "github.com/adolfosa/feria-manager/internal/auth"
	pkgauth "github.com/adolfosa/feria-manager/pkg/auth"
	"github.com/adolfosa/feria-manager/pkg/config"
	pkgerrors "github.com/adolfosa/feria-manager/pkg/errors"
	"github.com/adolfosa/feria-manager/pkg/logger"
)

type googleSignInRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type signInResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type userResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Picture *string `json:"picture,omitempty"`
}

// AuthGoogle exchanges a Google ID token for a feria session. The token is
// returned in the body and mirrored into the session cookie for browser
// clients.
func AuthGoogle(svc authsvc.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload googleSignInRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SignInWithGoogle(r.Context(), payload.Credential)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, result.Token, result.ExpiresAt)

		responses.WriteSuccess(w, signInResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			User: userResponse{
				ID:      result.User.ID.String(),
				Name:    result.User.Name,
				Email:   result.User.Email,
				Picture: result.User.Picture,
			},
		})
	}
}

// AuthSession returns the identity behind the presented token. Runs behind
// the auth middleware, so reaching it means the session is live.
func AuthSession(cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserIDFromContext(r.Context())
		claims := sessionClaims(r, cfg)
		if claims == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"user_id": userID.String(),
			"email":   claims.Email,
			"name":    claims.Name,
		})
	}
}

// AuthLogout revokes the server-side session and clears the cookie.
func AuthLogout(svc authsvc.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		claims := sessionClaims(r, cfg)
		if claims == nil || claims.ID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		if err := svc.SignOut(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

func sessionClaims(r *http.Request, cfg *config.Config) *pkgauth.SessionClaims {
	token := ""
	if raw := r.Header.Get("Authorization"); raw != "" {
		token = raw
		if len(token) > 7 && (token[:7] == "Bearer " || token[:7] == "bearer ") {
			token = token[7:]
		}
	} else if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		token = cookie.Value
	}
	if token == "" {
		return nil
	}
	claims, err := pkgauth.ParseSessionToken(cfg.JWT, token)
	if err != nil {
		return nil
	}
	return claims
}

func setSessionCookie(w http.ResponseWriter, cfg *config.Config, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.App.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.App.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
}
