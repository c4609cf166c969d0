// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает bcrypt-хеш пароля с фиксированной стоимостью Cost.
// CompareHash и Verify сравнивают сохранённый хеш с введённым паролем.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost — стоимость bcrypt, общая для всех учётных записей.
const Cost = 12

// GetHash принимает пароль пользователя и возвращает его bcrypt‑хэш.
//
// Используется для безопасного хранения паролей в базе данных.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Verify возвращает true, если пароль соответствует хэшу.
func Verify(plain, hash string) bool {
	return CompareHash(hash, plain) == nil
}

// Hasher объединяет функции пакета для внедрения в сервисы.
type Hasher struct{}

// Hash вызывает GetHash.
func (Hasher) Hash(plain string) (string, error) { return GetHash(plain) }

// Verify вызывает Verify.
func (Hasher) Verify(plain, hash string) bool { return Verify(plain, hash) }
