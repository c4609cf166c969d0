package hsass

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/adarsh1278/HSass-backend/internal/config"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/admin/createhospital"
	adminprofile "github.com/adarsh1278/HSass-backend/internal/http/handlers/admin/profile"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/admin/purchaseplan"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/admin/signup"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/auth/login"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/auth/logout"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/auth/register"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/auth/renew"
	hospitalprofile "github.com/adarsh1278/HSass-backend/internal/http/handlers/hospital/profile"
	hospitalupdate "github.com/adarsh1278/HSass-backend/internal/http/handlers/hospital/update"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/plans/create"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/plans/deactivate"
	planlist "github.com/adarsh1278/HSass-backend/internal/http/handlers/plans/list"
	planupdate "github.com/adarsh1278/HSass-backend/internal/http/handlers/plans/update"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/superadmin/hospitals"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/superadmin/stats"
	"github.com/adarsh1278/HSass-backend/internal/http/handlers/system/health"
	"github.com/adarsh1278/HSass-backend/internal/http/middlewarectx"
	"github.com/adarsh1278/HSass-backend/internal/http/response"
	"github.com/adarsh1278/HSass-backend/internal/http/session"
)

// RouteDeps — всё, что нужно для регистрации маршрутов.
type RouteDeps struct {
	Logger      *slog.Logger
	Services    Services
	DB          health.Pinger
	Metrics     middlewarectx.RequestObserver
	Cookie      session.Cookie
	RateLimit   config.RateLimit
	StackTraces bool
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d RouteDeps) {
	log := d.Logger
	svc := d.Services

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		response.WithStack(d.StackTraces),
		middlewarectx.Metrics(d.Metrics),
	)

	authenticated := middlewarectx.Authenticate(svc.Auth, d.Cookie.Name, log)
	limiter := middlewarectx.NewRateLimiter(d.RateLimit.Requests, d.RateLimit.Window)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(limiter, log))

		r.Get("/health", health.New(log, d.DB).ServeHTTP)

		r.Route("/super-admin", func(r chi.Router) {
			r.Post("/login", login.New(log, login.Func(svc.Auth.LoginSuperAdmin), d.Cookie, "superAdmin").ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticated, middlewarectx.RequireSuperAdmin(log))
				r.Post("/subscription-plans", create.New(log, svc.Plans).ServeHTTP)
				r.Get("/subscription-plans",
					planlist.New(log, planlist.Func(svc.Plans.ListManaged), "Subscription plans fetched successfully").ServeHTTP)
				r.Put("/subscription-plans/{id}", planupdate.New(log, svc.Plans).ServeHTTP)
				r.Delete("/subscription-plans/{id}", deactivate.New(log, svc.Plans).ServeHTTP)
				r.Get("/hospitals", hospitals.New(log, svc.Tenants).ServeHTTP)
				r.Get("/dashboard/stats", stats.New(log, svc.Tenants).ServeHTTP)
				r.Post("/logout", logout.New(log, d.Cookie).ServeHTTP)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/plans", planlist.New(log, planlist.Func(svc.Plans.ListActive), "Plans retrieved successfully").ServeHTTP)
			r.Post("/signup", signup.New(log, svc.Provisioning, d.Cookie).ServeHTTP)
			r.Post("/login", login.New(log, login.Func(svc.Auth.LoginAdmin), d.Cookie, "admin").ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/purchase-plan", purchaseplan.New(log, svc.Provisioning).ServeHTTP)
				r.Post("/create-hospital", createhospital.New(log, svc.Provisioning).ServeHTTP)
				r.Get("/profile", adminprofile.New(log, svc.Provisioning).ServeHTTP)
				r.Post("/logout", logout.New(log, d.Cookie).ServeHTTP)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/plans",
				planlist.New(log, planlist.Func(svc.Plans.ListActive), "Subscription plans fetched successfully").ServeHTTP)
			r.Post("/register", register.New(log, svc.Provisioning, d.Cookie).ServeHTTP)
			r.Post("/login", login.New(log, login.Func(svc.Auth.LoginStaff), d.Cookie, "user").ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Post("/subscription/purchase", renew.New(log, svc.Provisioning).ServeHTTP)
				r.Get("/hospital/profile", hospitalprofile.New(log, svc.Tenants).ServeHTTP)
				r.Put("/hospital/profile", hospitalupdate.New(log, svc.Tenants).ServeHTTP)
				r.Post("/logout", logout.New(log, d.Cookie).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Message(w, r, http.StatusNotFound, fmt.Sprintf("route %s not found", r.URL.Path))
	})
}
