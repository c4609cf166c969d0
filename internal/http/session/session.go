// Package session управляет cookie с сессионным токеном.
package session

import (
	"net/http"
	"time"
)

// Cookie описывает параметры сессионной cookie.
type Cookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// New создаёт Cookie. Secure включается в production.
func New(name string, maxAge time.Duration, secure bool) Cookie {
	return Cookie{Name: name, MaxAge: maxAge, Secure: secure}
}

// Set записывает токен в cookie.
func (c Cookie) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear удаляет cookie на клиенте. Сам токен остаётся действительным до истечения срока.
func (c Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
