package httpapi

import (
    "context"
    "net/http"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "gremlin-admin/internal/config"
    "gremlin-admin/internal/store"
)

// Pool là tập con của pgxpool.Pool mà router cần.
type Pool interface {
    store.DB
    Ping(ctx context.Context) error
}

func NewRouter(cfg *config.Config, pool Pool) http.Handler {
    r := chi.NewRouter()

    r.Use(middleware.RequestID)
    r.Use(LoggingMiddleware)
    r.Use(middleware.Recoverer)

    r.Get("/health", HealthHandler(pool))
    r.Get("/version", VersionHandler())

    st := &store.ConditionStore{DB: pool}

    r.Route("/api", func(api chi.Router) {
        api.Use(APIKeyAuth(cfg))
        api.Post("/activation-conditions/validate", ValidateHandler(cfg))
        api.Route("/actions/{id}/activation-condition", func(ac chi.Router) {
            ac.Get("/", GetConditionHandler(st))
            ac.Put("/", PutConditionHandler(st))
            ac.Delete("/", DeleteConditionHandler(st))
            ac.Post("/evaluate", EvaluateHandler(st))
        })
    })

    return r
}
