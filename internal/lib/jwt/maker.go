// Package jwt реализует выпуск и проверку сессионных JWT токенов.
//
// Maker определяет интерфейс для создания и проверки токенов с идентификатором
// субъекта, email, ролью и (опционально) идентификатором больницы.
// MakerImpl — конкретная реализация с секретным ключом и сроком жизни токена.
package jwt

import (
	"errors"
	"time"
)

var (
	// ErrInvalidToken — токен повреждён, подписан другим ключом или другим алгоритмом.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken — срок действия токена истёк.
	ErrExpiredToken = errors.New("token expired")
)

// Payload — данные, которые кладутся в токен при выпуске.
type Payload struct {
	SubjectID  string
	Email      string
	Role       string
	HospitalID *string
}

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken подписывает токен с данными payload.
	GenerateToken(payload Payload) (string, error)
	// ParseToken проверяет подпись и срок действия и возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
