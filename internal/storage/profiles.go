package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Kavinnandha/patient-care/internal/models"
)

const profileColumns = `uid, user_uid, first_name, last_name, date_of_birth, gender,
			      height, weight, blood_type, medical_conditions, allergies,
			      current_medications, emergency_contact, created_at`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	p := &models.Profile{}
	var conditions, allergies, medications, contact []byte
	if err := row.Scan(&p.UUID, &p.UserUID, &p.FirstName, &p.LastName, &p.DateOfBirth,
		&p.Gender, &p.Height, &p.Weight, &p.BloodType, &conditions, &allergies,
		&medications, &contact, &p.CreatedAt); err != nil {
		return nil, translateErr(err)
	}
	if err := json.Unmarshal(conditions, &p.MedicalConditions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(allergies, &p.Allergies); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(medications, &p.CurrentMedications); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(contact, &p.EmergencyContact); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfileByUser возвращает профиль пациента по UID владельца.
func (s *Storage) GetProfileByUser(ctx context.Context, userUID string) (*models.Profile, error) {
	const op = "storage.GetProfileByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_uid = $1`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetProfile возвращает профиль пациента по его UID.
func (s *Storage) GetProfile(ctx context.Context, profileUID string) (*models.Profile, error) {
	const op = "storage.GetProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE uid = $1`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, profileUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
