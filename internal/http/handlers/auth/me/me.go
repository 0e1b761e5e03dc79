package me

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Kavinnandha/patient-care/internal/http/middlewarectx"
	"github.com/Kavinnandha/patient-care/internal/http/response"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	"github.com/Kavinnandha/patient-care/internal/models"
	authservice "github.com/Kavinnandha/patient-care/internal/services/auth"
)

// Service описывает интерфейс получения текущего пользователя и его профиля.
type Service interface {
	Me(ctx context.Context, userUID string) (*models.User, *models.Profile, error)
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
// @Summary Текущий пользователь
// @Description Возвращает пользователя и профиль по access токену запроса.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Пользователь и профиль"
// @Failure 401 {object} response.ErrorResponse "Нет или невалидный токен"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFromContext(r.Context())
	if !ok {
		log.Error("claims missing in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing or invalid authorization header"))
		return
	}

	user, profile, err := h.auth.Me(r.Context(), claims.UserUID)
	if err != nil {
		if errors.Is(err, authservice.ErrUserNotFound) {
			log.Error("user from claims is gone", slog.String("user_uid", claims.UserUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to fetch user data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to fetch user data"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"user":    user,
		"profile": profile,
	}))
}
