package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Kavinnandha/patient-care/internal/http/middlewarectx"
	"github.com/Kavinnandha/patient-care/internal/http/response"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	"github.com/Kavinnandha/patient-care/internal/models"
)

// Service описывает интерфейс получения измерений профиля.
type Service interface {
	List(ctx context.Context, profileUID string, limit, offset int) ([]*models.GlucoseReading, error)
}

type Handler struct {
	log     *slog.Logger
	glucose Service
}

func New(log *slog.Logger, glucose Service) *Handler {
	return &Handler{
		log:     log,
		glucose: glucose,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.glucose.list"

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

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	readings, err := h.glucose.List(r.Context(), claims.ProfileUID, limit, offset)
	if err != nil {
		log.Error("failed to list glucose readings", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list glucose readings"))
		return
	}

	render.JSON(w, r, response.OKWithData(readings))
}
