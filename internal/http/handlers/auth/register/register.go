package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/Kavinnandha/patient-care/internal/http/response"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	"github.com/Kavinnandha/patient-care/internal/models"
	authservice "github.com/Kavinnandha/patient-care/internal/services/auth"
)

// Request — входные данные для регистрации: учетная запись и профиль пациента
type Request struct {
	Username           string                  `json:"username" validate:"required,min=3,max=50"`
	Email              string                  `json:"email" validate:"required,email"`
	Password           string                  `json:"password" validate:"required,min=6"`
	FirstName          string                  `json:"first_name" validate:"required"`
	LastName           string                  `json:"last_name" validate:"required"`
	DateOfBirth        string                  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender             string                  `json:"gender" validate:"required,oneof=male female other"`
	Height             float64                 `json:"height" validate:"omitempty,gt=0"`
	Weight             float64                 `json:"weight" validate:"omitempty,gt=0"`
	BloodType          string                  `json:"blood_type" validate:"omitempty"`
	MedicalConditions  []string                `json:"medical_conditions"`
	Allergies          []string                `json:"allergies"`
	CurrentMedications []string                `json:"current_medications"`
	EmergencyContact   models.EmergencyContact `json:"emergency_contact"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, in authservice.RegisterInput) (*models.User, *models.Profile, *models.TokenPair, error)
}

// Notifier публикует событие о новой регистрации в очередь приветственных писем.
// nil отключает уведомления.
type Notifier interface {
	PublishWelcome(event models.WelcomeEvent) error
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log      *slog.Logger
	auth     Service
	notifier Notifier
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, notifier Notifier) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		notifier: notifier,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя и профиль пациента, возвращает пару токенов.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} map[string]any "Успешная регистрация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 409 {object} response.ErrorResponse "Username или email уже занят"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	dateOfBirth, _ := time.Parse("2006-01-02", req.DateOfBirth)

	user, profile, pair, err := h.auth.Register(r.Context(), authservice.RegisterInput{
		Username:           req.Username,
		Email:              req.Email,
		Password:           req.Password,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		DateOfBirth:        dateOfBirth,
		Gender:             req.Gender,
		Height:             req.Height,
		Weight:             req.Weight,
		BloodType:          req.BloodType,
		MedicalConditions:  req.MedicalConditions,
		Allergies:          req.Allergies,
		CurrentMedications: req.CurrentMedications,
		EmergencyContact:   req.EmergencyContact,
	})
	if err != nil {
		if errors.Is(err, authservice.ErrAlreadyExists) {
			log.Error("duplicate registration", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("username or email already exists"))
			return
		}
		log.Error("registration failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to register user"))
		return
	}

	if h.notifier != nil {
		// приветственное письмо отправляется асинхронно, его сбой не ломает регистрацию
		if err := h.notifier.PublishWelcome(models.WelcomeEvent{
			Email:     user.Email,
			Username:  user.Username,
			FirstName: profile.FirstName,
		}); err != nil {
			log.Warn("failed to publish welcome event", sl.Err(err))
		}
	}

	log.Info("user registered", slog.String("username", user.Username))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"tokens":  pair,
		"user":    user,
		"profile": profile,
	}))
}
