package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Kavinnandha/patient-care/internal/models"
)

// CreateGlucoseReading вставляет новое измерение глюкозы и возвращает время создания.
func (s *Storage) CreateGlucoseReading(ctx context.Context, reading models.GlucoseReading) (*models.GlucoseReading, error) {
	const op = "storage.CreateGlucoseReading"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	// нулевое CreatedAt заменяется текущим временем на стороне базы
	createdAt := sql.NullTime{Time: reading.CreatedAt, Valid: !reading.CreatedAt.IsZero()}

	query := `INSERT INTO glucose_readings (uid, profile_uid, glucose_level, reading_type, notes, created_at)
			  VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		reading.UUID, reading.ProfileUID, reading.GlucoseLevel, reading.ReadingType,
		reading.Notes, createdAt).Scan(&reading.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateErr(err))
	}
	return &reading, nil
}

// ListGlucoseReadings возвращает измерения профиля от новых к старым с пагинацией.
func (s *Storage) ListGlucoseReadings(ctx context.Context, profileUID string, limit, offset int) ([]*models.GlucoseReading, error) {
	const op = "storage.ListGlucoseReadings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, profile_uid, glucose_level, reading_type, notes, created_at
			  FROM glucose_readings
			  WHERE profile_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, profileUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.GlucoseReading
	for rows.Next() {
		var item models.GlucoseReading
		if err := rows.Scan(&item.UUID, &item.ProfileUID, &item.GlucoseLevel,
			&item.ReadingType, &item.Notes, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
