package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrExpiredToken возвращается, когда срок действия токена истёк.
var ErrExpiredToken = errors.New("token expired")

// ErrInvalidToken возвращается при неверной подписи, структуре или виде токена.
var ErrInvalidToken = errors.New("invalid token")

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"userId"`    // Идентификатор пользователя
	Username             string `json:"username"`  // Имя пользователя
	ProfileUID           string `json:"profileId"` // Идентификатор профиля пациента
	Kind                 Kind   `json:"kind"`      // Вид токена: access или refresh
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

func (j *MakerImpl) secretFor(kind Kind) (string, time.Duration) {
	if kind == KindRefresh {
		return j.refreshSecret, j.refreshTTL
	}
	return j.accessSecret, j.accessTTL
}

// IssuePair выпускает пару токенов с общими claims: access подписывается
// access-секретом со своим TTL, refresh — refresh-секретом.
func (j *MakerImpl) IssuePair(userUID, username, profileUID string) (string, string, error) {
	access, err := j.issue(userUID, username, profileUID, KindAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err := j.issue(userUID, username, profileUID, KindRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (j *MakerImpl) issue(userUID, username, profileUID string, kind Kind) (string, error) {
	const op = "jwt.issue"
	secret, ttl := j.secretFor(kind)
	claims := CustomClaims{
		UserUID:    userUID,
		Username:   username,
		ProfileUID: profileUID,
		Kind:       kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// Verify парсит токен, проверяет подпись секретом ожидаемого вида и поле kind,
// возвращает CustomClaims, если токен корректен. Истёкший токен отличим от
// невалидного через ErrExpiredToken.
func (j *MakerImpl) Verify(tokenStr string, kind Kind) (*CustomClaims, error) {
	const op = "jwt.Verify"
	secret, _ := j.secretFor(kind)
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpiredToken)
		}
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.Kind != kind {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}

// RefreshPair проверяет refresh токен и перевыпускает по его claims новую пару.
// Старый refresh токен остаётся действителен до собственного истечения,
// клиент обязан заменить его полученным.
func (j *MakerImpl) RefreshPair(refreshToken string) (string, string, error) {
	claims, err := j.Verify(refreshToken, KindRefresh)
	if err != nil {
		return "", "", err
	}
	return j.IssuePair(claims.UserUID, claims.Username, claims.ProfileUID)
}
