package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/Kavinnandha/patient-care/internal/http/middlewarectx"
	"github.com/Kavinnandha/patient-care/internal/http/response"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	"github.com/Kavinnandha/patient-care/internal/models"
)

// Request — входные данные нового измерения глюкозы
type Request struct {
	GlucoseLevel int    `json:"glucose_level" validate:"required,gt=0"`
	ReadingType  string `json:"reading_type" validate:"required,oneof=fasting pre_meal post_meal bedtime"`
	Notes        string `json:"notes" validate:"omitempty,max=500"`
}

// Service описывает интерфейс создания измерения.
type Service interface {
	Create(ctx context.Context, profileUID string, level int, readingType, notes string) (*models.GlucoseReading, error)
}

type Handler struct {
	log      *slog.Logger
	glucose  Service
	validate *validator.Validate
}

func New(log *slog.Logger, glucose Service) *Handler {
	return &Handler{
		log:      log,
		glucose:  glucose,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.glucose.create"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	reading, err := h.glucose.Create(r.Context(), claims.ProfileUID, req.GlucoseLevel, req.ReadingType, req.Notes)
	if err != nil {
		log.Error("failed to create glucose reading", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create glucose reading"))
		return
	}

	log.Info("glucose reading created", slog.String("profile_uid", claims.ProfileUID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(reading))
}
