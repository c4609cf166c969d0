// Package middlewarectx содержит HTTP middleware: проверку сессии, проверку
// роли, ограничение частоты запросов и сбор метрик.
//
// Authenticate берёт токен из cookie, а при её отсутствии из заголовка
// Authorization, разрешает его в субъекта через Authenticator и кладёт
// субъекта в контекст запроса.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/lib/sl"
	"github.com/adarsh1278/HSass-backend/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// PrincipalKey — ключ субъекта запроса в контексте.
const PrincipalKey Key = "principal"

// MsgTokenRequired возвращается, если токен не передан.
const MsgTokenRequired = "access token required"

// Authenticator разрешает токен в субъекта запроса.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

// WithPrincipal возвращает контекст с субъектом запроса.
func WithPrincipal(ctx context.Context, p *models.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

// PrincipalFromContext возвращает субъекта запроса, если он есть.
func PrincipalFromContext(ctx context.Context) (*models.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(*models.Principal)
	return p, ok && p != nil
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// Authenticate возвращает middleware, который пропускает только запросы
// с действительным токеном.
func Authenticate(auth Authenticator, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Authenticate"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			var token string
			if c, err := r.Cookie(cookieName); err == nil {
				token = c.Value
			}
			if token == "" {
				token = bearerToken(r)
			}
			if token == "" {
				log.Info("missing access token")
				response.Message(w, r, http.StatusUnauthorized, MsgTokenRequired)
				return
			}

			principal, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Info("authentication failed", sl.Err(err))
				response.Error(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
