// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для выпуска и проверки пары access/refresh токенов.
// MakerImpl — конкретная реализация с двумя секретными ключами и сроками жизни.
package jwt

import (
	"time"
)

// Kind определяет вид токена. Access и refresh подписываются разными секретами,
// поэтому refresh токен невозможно предъявить как access даже при replay.
type Kind string

const (
	// KindAccess короткоживущий токен для авторизации отдельных запросов
	KindAccess Kind = "access"
	// KindRefresh долгоживущий токен только для выпуска новой пары
	KindRefresh Kind = "refresh"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// IssuePair выпускает пару access/refresh токенов с общими claims.
	IssuePair(userUID, username, profileUID string) (access, refresh string, err error)
	// Verify проверяет токен ожидаемого вида и возвращает его claims.
	Verify(tokenStr string, kind Kind) (*CustomClaims, error)
	// RefreshPair перевыпускает пару по claims действующего refresh токена.
	RefreshPair(refreshToken string) (access, refresh string, err error)
}

// MakerImpl реализует интерфейс Maker с использованием раздельных секретов
// и времени жизни для каждого вида токена.
type MakerImpl struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретных ключей и TTL.
func NewJWTMaker(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}
