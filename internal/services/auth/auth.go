// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и управления сессиями пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Kavinnandha/patient-care/internal/lib/jwt"
	"github.com/Kavinnandha/patient-care/internal/lib/password"
	"github.com/Kavinnandha/patient-care/internal/models"
	"github.com/Kavinnandha/patient-care/internal/storage"
)

// ErrInvalidCredentials возвращается при неверном username или пароле.
// Сообщение едино для обоих случаев, чтобы не допускать перебор имен.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrAlreadyExists возвращается при регистрации с занятым username или email.
var ErrAlreadyExists = errors.New("username or email already exists")

// ErrUserNotFound возвращается, когда пользователь из claims отсутствует в базе.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenRevoked возвращается для токена, отозванного через logout.
var ErrTokenRevoked = errors.New("token has been invalidated")

// UserRepository описывает контракт для работы с пользователями и профилями в базе данных.
type UserRepository interface {
	// RegisterUserWithProfile атомарно сохраняет пользователя и его профиль.
	RegisterUserWithProfile(ctx context.Context, user models.User, profile models.Profile) error

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)

	// GetProfileByUser возвращает профиль по UID владельца.
	GetProfileByUser(ctx context.Context, userUID string) (*models.Profile, error)
}

// TokenBlacklist описывает контракт денилиста отозванных токенов.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

// AuthService отвечает за регистрацию, авторизацию и жизненный цикл JWT.
type AuthService struct {
	users     UserRepository
	blacklist TokenBlacklist
	jwtMaker  jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, blacklist TokenBlacklist, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:     users,
		blacklist: blacklist,
		jwtMaker:  jwtMaker,
	}
}

// RegisterInput входные данные регистрации: учетная запись и поля профиля пациента.
type RegisterInput struct {
	Username           string
	Email              string
	Password           string
	FirstName          string
	LastName           string
	DateOfBirth        time.Time
	Gender             string
	Height             float64
	Weight             float64
	BloodType          string
	MedicalConditions  []string
	Allergies          []string
	CurrentMedications []string
	EmergencyContact   models.EmergencyContact
}

// Register создает пользователя и его профиль в одной транзакции
// и выдает пару токенов. Занятый username или email дает ErrAlreadyExists,
// в том числе при гонке двух конкурентных регистраций.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *models.Profile, *models.TokenPair, error) {
	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, nil, nil, err
	}

	user := models.User{
		UUID:         uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	profile := models.Profile{
		UUID:               uuid.NewString(),
		UserUID:            user.UUID,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		DateOfBirth:        in.DateOfBirth,
		Gender:             in.Gender,
		Height:             in.Height,
		Weight:             in.Weight,
		BloodType:          in.BloodType,
		MedicalConditions:  in.MedicalConditions,
		Allergies:          in.Allergies,
		CurrentMedications: in.CurrentMedications,
		EmergencyContact:   in.EmergencyContact,
		CreatedAt:          user.CreatedAt,
	}

	if err := s.users.RegisterUserWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, nil, nil, ErrAlreadyExists
		}
		return nil, nil, nil, err
	}

	pair, err := s.issuePair(user.UUID, user.Username, profile.UUID)
	if err != nil {
		return nil, nil, nil, err
	}
	return &user, &profile, pair, nil
}

// Login проверяет пароль пользователя и выдает пару токенов вместе
// с санитизированным пользователем и профилем.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, *models.Profile, *models.TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, nil, ErrInvalidCredentials
		}
		return nil, nil, nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, nil, ErrInvalidCredentials
	}

	profile, err := s.users.GetProfileByUser(ctx, user.UUID)
	if err != nil {
		return nil, nil, nil, err
	}

	pair, err := s.issuePair(user.UUID, user.Username, profile.UUID)
	if err != nil {
		return nil, nil, nil, err
	}
	return user, profile, pair, nil
}

// Refresh перевыпускает пару токенов по действующему refresh токену.
// Старый refresh токен остается действителен до собственного истечения,
// клиент обязан заменить его полученным.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (*models.TokenPair, error) {
	access, refresh, err := s.jwtMaker.RefreshPair(refreshToken)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Me возвращает пользователя и профиль по claims текущего запроса.
func (s *AuthService) Me(ctx context.Context, userUID string) (*models.User, *models.Profile, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	profile, err := s.users.GetProfileByUser(ctx, user.UUID)
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// Logout вносит предъявленный access токен в денилист до его естественного
// истечения. Если клиент передал refresh токен, он отзывается тем же способом;
// невалидный refresh при этом молча игнорируется, logout все равно успешен.
func (s *AuthService) Logout(ctx context.Context, accessToken string, accessExpiry time.Time, refreshToken string) error {
	const op = "services.auth.Logout"
	if err := s.blacklist.BlacklistToken(ctx, accessToken, time.Until(accessExpiry)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if refreshToken == "" {
		return nil
	}
	claims, err := s.jwtMaker.Verify(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil
	}
	if err := s.blacklist.BlacklistToken(ctx, refreshToken, time.Until(claims.ExpiresAt.Time)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Authenticate проверяет access токен запроса: сначала денилист, затем подпись.
// Порядок важен: отозванный, но криптографически валидный токен отклоняется
// единообразно с прочими отозванными.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*jwt.CustomClaims, error) {
	revoked, err := s.blacklist.IsTokenBlacklisted(ctx, tokenStr)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return s.jwtMaker.Verify(tokenStr, jwt.KindAccess)
}

func (s *AuthService) issuePair(userUID, username, profileUID string) (*models.TokenPair, error) {
	access, refresh, err := s.jwtMaker.IssuePair(userUID, username, profileUID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
