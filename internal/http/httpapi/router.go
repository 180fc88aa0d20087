package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"collect/internal/http/handlers"
	"collect/internal/middleware"
)

// Options carries the cross-cutting knobs the router wires into its
// middleware chain.
type Options struct {
	Logger          zerolog.Logger
	RateLimitPerMin int
	AllowedOrigins  []string
	DefaultLocale   string
	Country         middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	// I18N runs before Logger: the logger reads the resolved locale and
	// country out of the request context, which only derived (inner)
	// handlers can see.
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.I18N(opts.DefaultLocale, opts.Country),
		middleware.Logger(opts.Logger),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.JWTSecret))
			r.Get("/profile", app.Profile)
			r.Delete("/profile", app.DeleteProfile)
		})
	})

	r.Route("/v1/collections", func(r chi.Router) {
		r.Get("/", app.CollectionsList)
		r.Get("/{id}", app.CollectionsGet)
		r.Get("/{id}/feed", app.CollectionsFeed)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(app.JWTSecret))
			r.Post("/", app.CollectionsCreate)
			r.Patch("/{id}", app.CollectionsUpdate)
			r.Delete("/{id}", app.CollectionsDelete)
			r.Post("/{id}/pay", app.CollectionsPay)
		})
	})

	r.Route("/v1/payments", func(r chi.Router) {
		r.Get("/", app.PaymentsList)
		r.Get("/{id}", app.PaymentsGet)
	})

	return r
}
