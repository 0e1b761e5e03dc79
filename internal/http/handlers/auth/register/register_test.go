package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Kavinnandha/patient-care/internal/models"
	authservice "github.com/Kavinnandha/patient-care/internal/services/auth"
)

// Мок сервиса регистрации
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, in authservice.RegisterInput) (*models.User, *models.Profile, *models.TokenPair, error) {
	args := m.Called(ctx, in)
	var user *models.User
	var profile *models.Profile
	var pair *models.TokenPair
	if args.Get(0) != nil {
		user = args.Get(0).(*models.User)
	}
	if args.Get(1) != nil {
		profile = args.Get(1).(*models.Profile)
	}
	if args.Get(2) != nil {
		pair = args.Get(2).(*models.TokenPair)
	}
	return user, profile, pair, args.Error(3)
}

type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) PublishWelcome(event models.WelcomeEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func validBody() Request {
	return Request{
		Username:    "alice",
		Email:       "alice@x.com",
		Password:    "password123",
		FirstName:   "Alice",
		LastName:    "Smith",
		DateOfBirth: "1990-05-15",
		Gender:      "female",
		Height:      165,
		Weight:      62,
		BloodType:   "A+",
	}
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	user := &models.User{UUID: "user-uid", Username: "alice", Email: "alice@x.com"}
	profile := &models.Profile{UUID: "profile-uid", UserUID: "user-uid", FirstName: "Alice"}
	pair := &models.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
		wantNotify     bool
	}{
		{
			name:           "valid registration",
			requestBody:    validBody(),
			mockErr:        nil,
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
			wantNotify:     true,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing password",
			requestBody: func() Request {
				r := validBody()
				r.Password = ""
				return r
			}(),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name: "validation error - bad date of birth",
			requestBody: func() Request {
				r := validBody()
				r.DateOfBirth = "15-05-1990"
				return r
			}(),
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field DateOfBirth must be a date in format 2006-01-02",
			wantStatus:     "Error",
		},
		{
			name:           "duplicate username or email",
			requestBody:    validBody(),
			mockErr:        authservice.ErrAlreadyExists,
			wantStatusCode: http.StatusConflict,
			wantError:      "username or email already exists",
			wantStatus:     "Error",
		},
		{
			name:           "service error",
			requestBody:    validBody(),
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to register user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthServiceMock)
			notifierMock := new(NotifierMock)
			handler := New(newNoopLogger(), authMock, notifierMock)

			if tt.mockErr != nil {
				authMock.On("Register", mock.Anything, mock.Anything).
					Return(nil, nil, nil, tt.mockErr).Once()
			} else if tt.wantStatusCode == http.StatusCreated {
				authMock.On("Register", mock.Anything, mock.MatchedBy(func(in authservice.RegisterInput) bool {
					return in.Username == "alice" && in.Email == "alice@x.com" &&
						in.FirstName == "Alice" && in.Gender == "female" &&
						in.DateOfBirth.Year() == 1990
				})).Return(user, profile, pair, nil).Once()
			}
			if tt.wantNotify {
				notifierMock.On("PublishWelcome", models.WelcomeEvent{
					Email:     "alice@x.com",
					Username:  "alice",
					FirstName: "Alice",
				}).Return(nil).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				tokens, ok := data["tokens"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "access", tokens["access_token"])
				assert.Equal(t, "refresh", tokens["refresh_token"])
				userData, ok := data["user"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "alice", userData["username"])
				assert.NotContains(t, userData, "password_hash")
			}

			authMock.AssertExpectations(t)
			notifierMock.AssertExpectations(t)
		})
	}
}

func TestRegisterHandler_NotifierFailureDoesNotBreakRegistration(t *testing.T) {
	authMock := new(AuthServiceMock)
	notifierMock := new(NotifierMock)
	handler := New(newNoopLogger(), authMock, notifierMock)

	authMock.On("Register", mock.Anything, mock.Anything).
		Return(&models.User{UUID: "u", Username: "alice", Email: "alice@x.com"},
			&models.Profile{UUID: "p", FirstName: "Alice"},
			&models.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil).Once()
	notifierMock.On("PublishWelcome", mock.Anything).Return(errors.New("broker down")).Once()

	bodyBytes, err := json.Marshal(validBody())
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	notifierMock.AssertExpectations(t)
}
