package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"studyhub/internal/http/handlers"
	"studyhub/internal/infra"
	"studyhub/internal/middleware"
)

type RouterOptions struct {
	Logger         *infra.Logger
	AllowedOrigins []string
}

func NewRouter(app *handlers.App, opts RouterOptions) stdhttp.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = infra.NopLogger()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(*logger),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/diagrams", func(r chi.Router) {
		r.Use(chimw.AllowContentType("application/json"))
		r.Post("/", app.CreateDiagram)
	})

	return r
}
