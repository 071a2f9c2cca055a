package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"hrserver/internal/http/handlers"
	"hrserver/internal/infra"
	"hrserver/internal/middleware"
)

// NewRouter assembles the middleware chain and route table.
func NewRouter(cfg *infra.Config, app *handlers.App, country middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/signup", app.SignUp)
		r.Post("/signin", app.SignIn)
		r.Post("/oauth", app.SignInWithOAuth)
		r.Post("/reset-password", app.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.SupabaseJWTSecret))
			r.Get("/me", app.Me)
			r.Post("/profile", app.UpdateProfile)
			r.Post("/signout", app.SignOut)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.SupabaseJWTSecret))
		r.Use(middleware.Geo(country))

		r.Route("/v1/jobs", func(r chi.Router) {
			r.Get("/", app.JobsList)
			r.Post("/", app.JobsCreate)
			r.Post("/refresh", app.JobsRefresh)
			r.Post("/{id}/share", app.JobsShare)
		})

		r.Route("/v1/candidates", func(r chi.Router) {
			r.Get("/", app.CandidatesList)
			r.Post("/screen", app.ScreeningTrigger)
			r.Post("/rescreen", app.ScreeningRescreen)
		})

		r.Route("/v1/interviews", func(r chi.Router) {
			r.Get("/", app.InterviewsList)
			r.Post("/{id}/outcome", app.InterviewsSetOutcome)
		})

		r.Route("/v1/employees", func(r chi.Router) {
			r.Get("/", app.EmployeesList)
			r.Post("/", app.EmployeesCreate)
		})

		r.Route("/v1/attendance", func(r chi.Router) {
			r.Get("/", app.AttendanceList)
			r.Post("/check-in", app.AttendanceCheckIn)
			r.Post("/{id}/check-out", app.AttendanceCheckOut)
		})

		r.Route("/v1/payroll", func(r chi.Router) {
			r.Get("/", app.PayrollList)
			r.Post("/{id}/mark-paid", app.PayrollMarkPaid)
		})

		r.Route("/v1/settings", func(r chi.Router) {
			r.Get("/", app.SettingsGet)
			r.Put("/", app.SettingsUpsert)
		})

		r.Get("/v1/analytics/summary", app.AnalyticsSummary)
		r.Get("/v1/notifications", app.Notifications)
	})

	return r
}
