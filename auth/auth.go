package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")
	roleCtxKey        = ctxKey("role")

	// RoleAdmin marks users allowed to close inquiries and manage templates.
	RoleAdmin = "admin"
	RoleUser  = "user"

	sessionTTL = 14 * 24 * time.Hour
)

// UserVerifier is an optional callback to validate that a session's user still
// exists/is allowed. Set it during app bootstrap via SetUserVerifier. If nil,
// no extra verification is performed.
type UserVerifier func(ctx context.Context, uid uint) bool

var verifier UserVerifier

// SetUserVerifier configures the global verifier used by RequireAuth.
func SetUserVerifier(v UserVerifier) { verifier = v }

// Secret returns SESSION_SECRET or a default dev value.
func Secret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}

func sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(Secret()))
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie carrying user id, role, and expiry.
func CreateSession(w http.ResponseWriter, userID uint, role string) {
	if role != RoleAdmin {
		role = RoleUser
	}
	exp := time.Now().Add(sessionTTL)
	payload := fmt.Sprintf("%d|%s|%d", userID, role, exp.Unix())
	value := payload + "." + sign(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie signature and expiry and returns the
// user id and role.
func ParseSession(r *http.Request) (uint, string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return 0, "", false
	}
	dot := strings.LastIndex(c.Value, ".")
	if dot <= 0 {
		return 0, "", false
	}
	payload, sig := c.Value[:dot], c.Value[dot+1:]
	if !hmac.Equal([]byte(sig), []byte(sign(payload))) {
		return 0, "", false
	}
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return 0, "", false
	}
	id64, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", false
	}
	expUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || time.Now().Unix() > expUnix {
		return 0, "", false
	}
	return uint(id64), parts[1], true
}

// WithUser stores user id and role in context.
func WithUser(ctx context.Context, userID uint, role string) context.Context {
	ctx = context.WithValue(ctx, userIDCtxKey, userID)
	return context.WithValue(ctx, roleCtxKey, role)
}

// UserIDFromContext extracts the authenticated user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok
}

// RoleFromContext extracts the authenticated user's role.
func RoleFromContext(ctx context.Context) string {
	if role, ok := ctx.Value(roleCtxKey).(string); ok {
		return role
	}
	return ""
}

// IsAdmin reports whether the context carries an admin session.
func IsAdmin(ctx context.Context) bool { return RoleFromContext(ctx) == RoleAdmin }

// Middleware attaches user id and role to the request context if a valid
// session cookie is present.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, role, ok := ParseSession(r); ok {
			r = r.WithContext(WithUser(r.Context(), uid, role))
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprint(w, `{"error":"unauthorized"}`)
}

// RequireAuth rejects requests without a valid session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if verifier != nil && !verifier(r.Context(), uid) {
			// session refers to a deleted/disabled user: clear and reject
			ClearSession(w)
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session does not carry the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":"forbidden"}`)
			return
		}
		next.ServeHTTP(w, r)
	}))
}
