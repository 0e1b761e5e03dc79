// Команда seed наполняет базу тестовыми пациентами, профилями и измерениями
// глюкозы для локальной разработки.
package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Kavinnandha/patient-care/internal/config"
	"github.com/Kavinnandha/patient-care/internal/lib/password"
	"github.com/Kavinnandha/patient-care/internal/lib/sl"
	"github.com/Kavinnandha/patient-care/internal/migrations"
	"github.com/Kavinnandha/patient-care/internal/models"
	"github.com/Kavinnandha/patient-care/internal/storage"
)

type seedUser struct {
	username string
	email    string
	profile  models.Profile
}

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer db.DB.Close()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	ctx := context.Background()

	hash, err := password.GetHash("password123")
	if err != nil {
		logger.Error("failed to hash seed password", sl.Err(err))
		os.Exit(1)
	}

	seeds := []seedUser{
		{
			username: "john.doe",
			email:    "john@example.com",
			profile: models.Profile{
				FirstName:          "John",
				LastName:           "Doe",
				DateOfBirth:        time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC),
				Gender:             "male",
				Height:             175,
				Weight:             75,
				BloodType:          "O+",
				MedicalConditions:  []string{"Type 2 Diabetes", "Hypertension"},
				Allergies:          []string{"Penicillin"},
				CurrentMedications: []string{"Metformin", "Lisinopril"},
				EmergencyContact: models.EmergencyContact{
					Name:         "Mary Doe",
					Relationship: "Wife",
					Phone:        "555-0123",
				},
			},
		},
		{
			username: "jane.smith",
			email:    "jane@example.com",
			profile: models.Profile{
				FirstName:          "Jane",
				LastName:           "Smith",
				DateOfBirth:        time.Date(1985, 8, 22, 0, 0, 0, 0, time.UTC),
				Gender:             "female",
				Height:             165,
				Weight:             62,
				BloodType:          "A+",
				MedicalConditions:  []string{"Asthma"},
				Allergies:          []string{"Dust", "Pollen"},
				CurrentMedications: []string{"Albuterol"},
				EmergencyContact: models.EmergencyContact{
					Name:         "Bob Smith",
					Relationship: "Husband",
					Phone:        "555-0124",
				},
			},
		},
	}

	profileUIDs := make([]string, 0, len(seeds))
	for _, s := range seeds {
		user := models.User{
			UUID:         uuid.NewString(),
			Username:     s.username,
			Email:        s.email,
			PasswordHash: hash,
		}
		profile := s.profile
		profile.UUID = uuid.NewString()
		profile.UserUID = user.UUID

		if err := db.RegisterUserWithProfile(ctx, user, profile); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				logger.Info("seed user already exists, skipping", slog.String("username", s.username))
				continue
			}
			logger.Error("failed to create seed user", slog.String("username", s.username), sl.Err(err))
			os.Exit(1)
		}
		profileUIDs = append(profileUIDs, profile.UUID)
		logger.Info("created seed user", slog.String("username", s.username))
	}

	// измерения глюкозы за последнюю неделю для первого пациента
	if len(profileUIDs) > 0 {
		now := time.Now()
		for i := range 7 {
			day := now.AddDate(0, 0, -i)
			morning := models.GlucoseReading{
				UUID:         uuid.NewString(),
				ProfileUID:   profileUIDs[0],
				GlucoseLevel: rand.Intn(180-70) + 70,
				ReadingType:  "fasting",
				Notes:        "Morning reading",
				CreatedAt:    time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, day.Location()),
			}
			afternoon := models.GlucoseReading{
				UUID:         uuid.NewString(),
				ProfileUID:   profileUIDs[0],
				GlucoseLevel: rand.Intn(200-100) + 100,
				ReadingType:  "post_meal",
				Notes:        "After lunch",
				CreatedAt:    time.Date(day.Year(), day.Month(), day.Day(), 14, 0, 0, 0, day.Location()),
			}
			for _, reading := range []models.GlucoseReading{morning, afternoon} {
				if _, err := db.CreateGlucoseReading(ctx, reading); err != nil {
					logger.Error("failed to create glucose reading", sl.Err(err))
					os.Exit(1)
				}
			}
		}
		logger.Info("created glucose readings", slog.Int("count", 14))
	}

	logger.Info("database seeded successfully")
}
