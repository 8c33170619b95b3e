// Package identity resolves a per-student identity for each request.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// UserHeaderName lets an authenticating front end pass the student
	// name explicitly. It takes precedence over the cookie.
	UserHeaderName = "X-Learnbot-User"

	// AnonCookieName carries the generated identity for students who
	// never log in, so their sessions survive page reloads.
	AnonCookieName = "learnbot_uid"

	anonCookieMaxAge = 30 * 24 * time.Hour
)

type contextKey int

const usernameKey contextKey = iota

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._@-]{1,64}$`)
	anonIDPattern   = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)
)

// UsernameFromContext extracts the resolved student name from the request
// context. Handlers past the middleware always get a non-empty value.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// WithUsername returns a context carrying the given student name. Exposed
// for tests and non-HTTP callers.
func WithUsername(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, usernameKey, name)
}

func generateAnonID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

func sanitizeUsername(name string) string {
	name = strings.TrimSpace(name)
	if !usernamePattern.MatchString(name) {
		return ""
	}
	return name
}

func getOrCreateAnonID(w http.ResponseWriter, r *http.Request, isDev bool) (string, error) {
	if c, err := r.Cookie(AnonCookieName); err == nil && anonIDPattern.MatchString(c.Value) {
		return c.Value, nil
	}

	id, err := generateAnonID()
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
	return id, nil
}

// Middleware resolves the student identity for each request: the explicit
// header when present and well formed, otherwise a cookie-backed anonymous
// id minted on first contact.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := sanitizeUsername(r.Header.Get(UserHeaderName))
			if username == "" {
				id, err := getOrCreateAnonID(w, r, isDev)
				if err != nil {
					http.Error(w, `{"error":"failed to establish identity"}`, http.StatusInternalServerError)
					return
				}
				username = id
			}

			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}
