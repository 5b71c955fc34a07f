package main

import (
    "context"
    "flag"
    "log"
    "log/slog"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "gremlin-admin/internal/config"
    "gremlin-admin/internal/db"
    "gremlin-admin/internal/httpapi"
)

func main() {
    cfgPath := flag.String("config", "/etc/gremlind.yaml", "config file path")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil {
        log.Fatalf("load config: %v", err)
    }

    level, _ := cfg.SlogLevel()
    slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

    pool, err := db.NewPool(cfg.DBDSN, cfg.DB)
    if err != nil {
        log.Fatalf("db connect: %v", err)
    }
    defer pool.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    err = db.EnsureSchema(ctx, pool)
    cancel()
    if err != nil {
        log.Fatalf("db schema: %v", err)
    }

    router := httpapi.NewRouter(cfg, pool)

    srv := &http.Server{
        Addr:         cfg.ListenAddr,
        Handler:      router,
        ReadTimeout:  5 * time.Second,
        WriteTimeout: 15 * time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        slog.Info("gremlin admin service listening", "addr", cfg.ListenAddr)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("ListenAndServe: %v", err)
        }
    }()

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
    <-sigCh

    ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        slog.Error("server shutdown error", "error", err)
    }
}
