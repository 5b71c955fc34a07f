package httpapi

import (
    "context"
    "log/slog"
    "net/http"
)

type pinger interface {
    Ping(ctx context.Context) error
}

func HealthHandler(pool pinger) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        if pool != nil {
            if err := pool.Ping(r.Context()); err != nil {
                slog.Warn("health check failed", "error", err)
                http.Error(w, "db not ok", http.StatusServiceUnavailable)
                return
            }
        }
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("OK"))
    }
}
