package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

type contextKey string

const usernameKey contextKey = "username"

const (
	// DefaultCookieName имя cookie с токеном сессии
	DefaultCookieName = "playsure_token"

	msgNotAuthenticated = "требуется аутентификация"
	msgInvalidToken     = "недействительный токен"
)

var errNoToken = errors.New("no session token")

// AuthConfig параметры проверки токена сессии
type AuthConfig struct {
	Secret     []byte
	CookieName string
}

// Auth проверяет JWT (HS256) из cookie или заголовка Authorization: Bearer
// и кладет имя пользователя (claim sub) в контекст запроса
func Auth(cfg AuthConfig) mux.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := tokenFromRequest(r, cfg.CookieName)
			if err != nil {
				handlers.RespondUnauthorized(w, msgNotAuthenticated)
				return
			}

			username, err := parseSubject(raw, cfg.Secret)
			if err != nil {
				handlers.RespondUnauthorized(w, msgInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext возвращает имя пользователя, проверенное middleware Auth
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}

// WithUsername кладет имя пользователя в контекст (для тестов handlers)
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

func tokenFromRequest(r *http.Request, cookieName string) (string, error) {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, nil
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && strings.TrimSpace(token) != "" {
		return strings.TrimSpace(token), nil
	}

	return "", errNoToken
}

func parseSubject(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}

	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", errors.New("empty subject")
	}
	return subject, nil
}
