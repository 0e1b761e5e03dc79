// Package middlewarectx содержит HTTP middleware для обработки и проверки JWT токенов.
//
// JWTMiddleware проверяет наличие и валидность access токена в заголовке
// Authorization. Токен сначала ищется в денилисте отозванных, затем проверяется
// подпись; в случае успеха claims и сырой токен добавляются в контекст запроса.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Kavinnandha/patient-care/internal/http/response"
	customjwt "github.com/Kavinnandha/patient-care/internal/lib/jwt"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	authservice "github.com/Kavinnandha/patient-care/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Claims — ключ для claims access токена в контексте
	Claims Key = "claims"
	// RawToken — ключ для сырой строки предъявленного токена, нужен для logout
	RawToken Key = "raw_token"
)

// Authenticator описывает интерфейс сервиса для проверки access токена запроса.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*customjwt.CustomClaims, error)
}

// ClaimsFromContext извлекает claims текущего запроса, добавленные JWTMiddleware.
func ClaimsFromContext(ctx context.Context) (*customjwt.CustomClaims, bool) {
	claims, ok := ctx.Value(Claims).(*customjwt.CustomClaims)
	return claims, ok
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Денилист проверяется до подписи, поэтому отозванный, но еще криптографически
// валидный токен отклоняется единообразно. Если токен валиден, claims и сырая
// строка токена добавляются в контекст запроса, иначе возвращается 401.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "auth.Jwtmiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if authHeader == "" {
				log.Error("missing authorization header")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := auth.Authenticate(r.Context(), tokenStr)
			if err != nil {
				log.Error("token rejected", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				switch {
				case errors.Is(err, authservice.ErrTokenRevoked):
					render.JSON(w, r, response.Error("token has been invalidated"))
				case errors.Is(err, customjwt.ErrExpiredToken):
					render.JSON(w, r, response.Error("token expired"))
				default:
					render.JSON(w, r, response.Error("invalid token"))
				}
				return
			}
			ctx := context.WithValue(r.Context(), Claims, claims)
			ctx = context.WithValue(ctx, RawToken, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
