package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Kavinnandha/patient-care/internal/models"
	services "github.com/Kavinnandha/patient-care/internal/services/glucose"
)

type GlucoseRepoMock struct {
	mock.Mock
}

func (m *GlucoseRepoMock) CreateGlucoseReading(ctx context.Context, reading models.GlucoseReading) (*models.GlucoseReading, error) {
	args := m.Called(ctx, reading)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlucoseReading), args.Error(1)
}

func (m *GlucoseRepoMock) ListGlucoseReadings(ctx context.Context, profileUID string, limit, offset int) ([]*models.GlucoseReading, error) {
	args := m.Called(ctx, profileUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GlucoseReading), args.Error(1)
}

type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestGlucoseService_Create(t *testing.T) {
	repo := new(GlucoseRepoMock)
	cache := new(CacheMock)
	svc := services.NewGlucoseService(repo, cache, newNoopLogger())

	created := &models.GlucoseReading{
		UUID:         "reading-uid",
		ProfileUID:   "profile-uid",
		GlucoseLevel: 110,
		ReadingType:  "fasting",
		CreatedAt:    time.Now(),
	}
	repo.On("CreateGlucoseReading", mock.Anything, mock.MatchedBy(func(r models.GlucoseReading) bool {
		return r.ProfileUID == "profile-uid" && r.GlucoseLevel == 110 &&
			r.ReadingType == "fasting" && r.UUID != ""
	})).Return(created, nil).Once()
	cache.On("Invalidate", mock.Anything, "glucose:list:profile-uid").Return(nil).Once()

	got, err := svc.Create(context.Background(), "profile-uid", 110, "fasting", "")
	require.NoError(t, err)
	assert.Equal(t, created, got)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGlucoseService_Create_Invalid(t *testing.T) {
	svc := services.NewGlucoseService(new(GlucoseRepoMock), new(CacheMock), newNoopLogger())

	_, err := svc.Create(context.Background(), "profile-uid", 0, "fasting", "")
	assert.Error(t, err)

	_, err = svc.Create(context.Background(), "profile-uid", 110, "random", "")
	assert.Error(t, err)
}

func TestGlucoseService_List_CacheMiss(t *testing.T) {
	repo := new(GlucoseRepoMock)
	cache := new(CacheMock)
	svc := services.NewGlucoseService(repo, cache, newNoopLogger())

	readings := []*models.GlucoseReading{
		{UUID: "r1", ProfileUID: "profile-uid", GlucoseLevel: 100, ReadingType: "fasting"},
	}
	cache.On("Get", mock.Anything, "glucose:list:profile-uid", mock.Anything).Return(false, nil).Once()
	repo.On("ListGlucoseReadings", mock.Anything, "profile-uid", 20, 0).Return(readings, nil).Once()
	cache.On("Set", mock.Anything, "glucose:list:profile-uid", readings, time.Minute).Return(nil).Once()

	got, err := svc.List(context.Background(), "profile-uid", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, readings, got)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestGlucoseService_List_SkipsCacheForLaterPages(t *testing.T) {
	repo := new(GlucoseRepoMock)
	cache := new(CacheMock)
	svc := services.NewGlucoseService(repo, cache, newNoopLogger())

	repo.On("ListGlucoseReadings", mock.Anything, "profile-uid", 20, 20).
		Return([]*models.GlucoseReading{}, nil).Once()

	_, err := svc.List(context.Background(), "profile-uid", 20, 20)
	require.NoError(t, err)

	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}
