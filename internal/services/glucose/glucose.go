// Package services содержит бизнес-логику для работы с измерениями глюкозы пациента.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	"github.com/Kavinnandha/patient-care/internal/models"
)

var validReadingTypes = map[string]bool{
	"fasting":   true,
	"pre_meal":  true,
	"post_meal": true,
	"bedtime":   true,
}

// GlucoseRepository определяет методы для работы с измерениями в хранилище.
type GlucoseRepository interface {
	// CreateGlucoseReading добавляет новое измерение.
	CreateGlucoseReading(ctx context.Context, reading models.GlucoseReading) (*models.GlucoseReading, error)
	// ListGlucoseReadings возвращает измерения профиля с пагинацией.
	ListGlucoseReadings(ctx context.Context, profileUID string, limit, offset int) ([]*models.GlucoseReading, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// GlucoseService реализует бизнес-логику работы с измерениями, включая кеширование списка.
type GlucoseService struct {
	repo  GlucoseRepository
	cache Cache
	log   *slog.Logger
}

// NewGlucoseService создает новый экземпляр GlucoseService.
func NewGlucoseService(repo GlucoseRepository, cache Cache, log *slog.Logger) *GlucoseService {
	return &GlucoseService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func listCacheKey(profileUID string) string {
	return "glucose:list:" + profileUID
}

// Create сохраняет измерение для профиля и сбрасывает кеш его списка.
func (s *GlucoseService) Create(ctx context.Context, profileUID string, level int, readingType, notes string) (*models.GlucoseReading, error) {
	if level <= 0 {
		return nil, fmt.Errorf("glucose level must be positive")
	}
	if !validReadingTypes[readingType] {
		return nil, fmt.Errorf("unknown reading type: %s", readingType)
	}

	reading := models.GlucoseReading{
		UUID:         uuid.NewString(),
		ProfileUID:   profileUID,
		GlucoseLevel: level,
		ReadingType:  readingType,
		Notes:        notes,
	}
	created, err := s.repo.CreateGlucoseReading(ctx, reading)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, listCacheKey(profileUID)); err != nil {
		s.log.Warn("failed to invalidate glucose list cache", sl.Err(err))
	}
	return created, nil
}

// List возвращает первую страницу измерений из кеша, остальные из хранилища.
func (s *GlucoseService) List(ctx context.Context, profileUID string, limit, offset int) ([]*models.GlucoseReading, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	firstPage := offset == 0
	if firstPage {
		var cached []*models.GlucoseReading
		found, err := s.cache.Get(ctx, listCacheKey(profileUID), &cached)
		if err != nil {
			s.log.Warn("failed to read glucose list cache", sl.Err(err))
		}
		if found && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	readings, err := s.repo.ListGlucoseReadings(ctx, profileUID, limit, offset)
	if err != nil {
		return nil, err
	}

	if firstPage {
		if err := s.cache.Set(ctx, listCacheKey(profileUID), readings, time.Minute); err != nil {
			s.log.Warn("failed to cache glucose list", sl.Err(err))
		}
	}
	return readings, nil
}
