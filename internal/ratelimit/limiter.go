// Package ratelimit реализует счетчик с фиксированным окном для ограничения
// попыток логина и регистрации. Состояние процесс-локальное и сбрасывается
// при рестарте; окно проверяется лениво в момент запроса, без фонового сборщика.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter хранит окна по ключу (идентификатор клиента). Для каждого класса
// конечных точек создается свой Limiter со своими лимитом и окном.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	count       int
	windowStart time.Time
}

// New создает Limiter, допускающий max запросов на ключ в течение window.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow инкрементирует счетчик ключа и сообщает, допущен ли запрос.
// Инкремент и сравнение сериализованы общим мьютексом, недосчет при
// конкурентных всплесках исключен.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		l.entries[key] = &entry{count: 1, windowStart: now}
		return true
	}
	e.count++
	return e.count <= l.max
}
