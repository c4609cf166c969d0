package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/adarsh1278/HSass-backend/internal/http/response"
)

// MsgSuperAdminRequired возвращается, если роль субъекта не SUPERADMIN.
const MsgSuperAdminRequired = "super admin access required"

// RequireSuperAdmin пропускает только супер-администратора.
// Должен стоять после Authenticate.
func RequireSuperAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				log.Error("principal missing in context", slog.String("request_id", middleware.GetReqID(r.Context())))
				response.Message(w, r, http.StatusUnauthorized, MsgTokenRequired)
				return
			}
			if !principal.Role.IsSuperAdmin() {
				log.Info("super admin route denied",
					slog.String("user_id", principal.ID),
					slog.String("role", principal.Role.String()),
				)
				response.Message(w, r, http.StatusForbidden, MsgSuperAdminRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
