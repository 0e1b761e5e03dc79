package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Kavinnandha/patient-care/internal/models"
)

// RegisterUserWithProfile сохраняет пользователя и его профиль в одной транзакции.
// Либо создаются обе записи, либо ни одной. Нарушение уникальности username
// или email транслируется в ErrAlreadyExists, что закрывает гонку
// проверка-затем-запись при конкурентных регистрациях.
func (s *Storage) RegisterUserWithProfile(ctx context.Context, user models.User, profile models.Profile) error {
	const op = "storage.RegisterUserWithProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	queryUser := `INSERT INTO users (uid, username, email, password_hash)
			  VALUES ($1, $2, $3, $4)`
	if _, err = tx.ExecContext(ctx, queryUser,
		user.UUID, user.Username, user.Email, user.PasswordHash); err != nil {
		return fmt.Errorf("%s: %w", op, translateErr(err))
	}

	conditions, err := json.Marshal(profile.MedicalConditions)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	allergies, err := json.Marshal(profile.Allergies)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	medications, err := json.Marshal(profile.CurrentMedications)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	contact, err := json.Marshal(profile.EmergencyContact)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	queryProfile := `INSERT INTO profiles (uid, user_uid, first_name, last_name, date_of_birth,
			      gender, height, weight, blood_type, medical_conditions, allergies,
			      current_medications, emergency_contact)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err = tx.ExecContext(ctx, queryProfile,
		profile.UUID, user.UUID, profile.FirstName, profile.LastName, profile.DateOfBirth,
		profile.Gender, profile.Height, profile.Weight, profile.BloodType,
		conditions, allergies, medications, contact); err != nil {
		return fmt.Errorf("%s: %w", op, translateErr(err))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&u.UUID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateErr(err))
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, password_hash, created_at
			  FROM users
			  WHERE uid = $1`
	u := &models.User{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&u.UUID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateErr(err))
	}
	return u, nil
}

// CountUsers возвращает количество зарегистрированных пользователей.
func (s *Storage) CountUsers(ctx context.Context) (int, error) {
	const op = "storage.CountUsers"

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
