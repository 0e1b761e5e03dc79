package logout

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Kavinnandha/patient-care/internal/http/middlewarectx"
	"github.com/Kavinnandha/patient-care/internal/http/response"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
)

// Request — опциональное тело запроса: клиент может передать refresh токен,
// чтобы отозвать и его вместе с access токеном.
type Request struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Service описывает интерфейс отзыва токенов при выходе.
type Service interface {
	Logout(ctx context.Context, accessToken string, accessExpiry time.Time, refreshToken string) error
}

type Handler struct {
	log  *slog.Logger
	auth Service
}

func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:  log,
		auth: auth,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Отзывает предъявленный access токен; refresh токен из тела отзывается тоже.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Успешный выход"
// @Failure 401 {object} response.ErrorResponse "Нет или невалидный токен"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFromContext(r.Context())
	rawToken, okToken := r.Context().Value(middlewarectx.RawToken).(string)
	if !ok || !okToken {
		log.Error("claims missing in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing or invalid authorization header"))
		return
	}

	// тело опционально, пустое или отсутствующее не является ошибкой
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.auth.Logout(r.Context(), rawToken, claims.ExpiresAt.Time, req.RefreshToken); err != nil {
		log.Error("logout failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("logout failed"))
		return
	}

	log.Info("user logged out", slog.String("username", claims.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
