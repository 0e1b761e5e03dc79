package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/Kavinnandha/patient-care/internal/http/response"
	"github.com/Kavinnandha/patient-care/internal/ratelimit"
)

var limiter = rate.NewLimiter(20, 40)

// RateLimitMiddleware общий token-bucket лимитер для защищенной группы маршрутов.
func RateLimitMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Error("too many requests")
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error("too many requests"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientKey возвращает идентификатор клиента для счетчиков лимитера: адрес
// источника без порта.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// FixedWindowMiddleware ограничивает попытки логина и регистрации счетчиком
// с фиксированным окном на клиента. Отказ происходит до какой-либо бизнес-логики,
// состояние приложения при этом не изменяется.
func FixedWindowMiddleware(log *slog.Logger, l *ratelimit.Limiter, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientKey(r)) {
				log.Error("rate limit exceeded", slog.String("client", ClientKey(r)))
				w.WriteHeader(http.StatusTooManyRequests)
				render.JSON(w, r, response.Error(message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
