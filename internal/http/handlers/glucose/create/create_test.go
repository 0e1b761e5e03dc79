package create

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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Kavinnandha/patient-care/internal/http/middlewarectx"
	customjwt "github.com/Kavinnandha/patient-care/internal/lib/jwt"
	"github.com/Kavinnandha/patient-care/internal/models"
)

type GlucoseServiceMock struct {
	mock.Mock
}

func (m *GlucoseServiceMock) Create(ctx context.Context, profileUID string, level int, readingType, notes string) (*models.GlucoseReading, error) {
	args := m.Called(ctx, profileUID, level, readingType, notes)
	reading, _ := args.Get(0).(*models.GlucoseReading)
	return reading, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func requestWithClaims(body []byte) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/glucose", bytes.NewReader(body))
	claims := &customjwt.CustomClaims{
		UserUID:    "user-uid",
		Username:   "john.doe",
		ProfileUID: "profile-uid",
		Kind:       customjwt.KindAccess,
	}
	ctx := context.WithValue(req.Context(), middlewarectx.Claims, claims)
	return req.WithContext(ctx)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	reading := &models.GlucoseReading{
		UUID:         "reading-uid",
		ProfileUID:   "profile-uid",
		GlucoseLevel: 110,
		ReadingType:  "fasting",
		CreatedAt:    time.Now(),
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockErr        error
		callExpected   bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid reading",
			requestBody:    Request{GlucoseLevel: 110, ReadingType: "fasting"},
			callExpected:   true,
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "unsupported reading type",
			requestBody:    Request{GlucoseLevel: 110, ReadingType: "midnight"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field ReadingType has an unsupported value",
		},
		{
			name:           "missing glucose level",
			requestBody:    Request{ReadingType: "fasting"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "field GlucoseLevel is a required field",
		},
		{
			name:           "storage failure",
			requestBody:    Request{GlucoseLevel: 110, ReadingType: "fasting"},
			mockErr:        errors.New("db is down"),
			callExpected:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to create glucose reading",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glucoseMock := new(GlucoseServiceMock)
			handler := New(newNoopLogger(), glucoseMock)

			if tt.callExpected {
				if tt.mockErr != nil {
					glucoseMock.On("Create", mock.Anything, "profile-uid", 110, "fasting", "").
						Return(nil, tt.mockErr).Once()
				} else {
					glucoseMock.On("Create", mock.Anything, "profile-uid", 110, "fasting", "").
						Return(reading, nil).Once()
				}
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

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, requestWithClaims(bodyBytes))

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
				data := got["data"].(map[string]any)
				assert.Equal(t, "profile-uid", data["profile_id"])
				assert.Equal(t, float64(110), data["glucose_level"])
			}

			glucoseMock.AssertExpectations(t)
		})
	}
}

func TestCreateHandler_NoClaims(t *testing.T) {
	glucoseMock := new(GlucoseServiceMock)
	handler := New(newNoopLogger(), glucoseMock)

	body, _ := json.Marshal(Request{GlucoseLevel: 110, ReadingType: "fasting"})
	req := httptest.NewRequest(http.MethodPost, "/glucose", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	glucoseMock.AssertNotCalled(t, "Create")
}
