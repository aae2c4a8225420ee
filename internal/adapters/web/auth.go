package web

import (
	"context"
	"net/http"
	"time"

	"employee-directory/internal/core"

	"github.com/golang-jwt/jwt/v5"
)

const authCookieName = "auth_token"

const authContextKey contextKey = "auth_context"

// authFromContext returns the authenticated caller's AuthContext. The zero
// value is returned when the request never passed through RequireAuth.
func authFromContext(ctx context.Context) core.AuthContext {
	v, _ := ctx.Value(authContextKey).(core.AuthContext)
	return v
}

type authClaims struct {
	jwt.RegisteredClaims
}

func (h *Handler) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *Handler) parseToken(raw string) (*authClaims, error) {
	claims := &authClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(h.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// RequireAuth authenticates the request from the signed session cookie. The
// token carries only the account ID; role membership is looked up on every
// request so a role change takes effect immediately rather than on the next
// login.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			writeError(w, r, "authentication required", "UNAUTHENTICATED", http.StatusUnauthorized)
			return
		}

		claims, err := h.parseToken(cookie.Value)
		if err != nil {
			writeError(w, r, "invalid or expired session", "UNAUTHENTICATED", http.StatusUnauthorized)
			return
		}

		user, err := h.users.GetUser(r.Context(), claims.Subject)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		if user == nil {
			writeError(w, r, "invalid or expired session", "UNAUTHENTICATED", http.StatusUnauthorized)
			return
		}

		roles, err := h.users.RolesForUser(r.Context(), claims.Subject)
		if err != nil {
			serviceError(w, r, err)
			return
		}

		auth := core.AuthContext{UserID: claims.Subject, Roles: roles}
		ctx := context.WithValue(r.Context(), authContextKey, auth)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects the request with 403 unless the authenticated caller
// holds the named role. Must be mounted inside RequireAuth.
func (h *Handler) RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authFromContext(r.Context()).HasRole(role) {
				writeError(w, r, "administrator role required", "FORBIDDEN", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, "email and password are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		// Always the same answer for a bad email or a bad password.
		writeError(w, r, "invalid email or password", "UNAUTHENTICATED", http.StatusUnauthorized)
		return
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtExpiry.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	writeJSON(w, map[string]string{"id": user.ID, "email": user.Email})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	auth := authFromContext(r.Context())
	user, err := h.users.GetUser(r.Context(), auth.UserID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if user == nil {
		writeError(w, r, "invalid or expired session", "UNAUTHENTICATED", http.StatusUnauthorized)
		return
	}
	writeJSON(w, user)
}
