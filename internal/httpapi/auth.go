package httpapi

import (
    "crypto/subtle"
    "log/slog"
    "net/http"

    "gremlin-admin/internal/config"
)

const roleReadOnly = "ro"

// APIKeyAuth kiểm tra header X-API-Key. Key có role "ro" chỉ được dùng
// các method không thay đổi dữ liệu.
func APIKeyAuth(cfg *config.Config) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            key := r.Header.Get("X-API-Key")
            if key == "" {
                http.Error(w, "api key required", http.StatusUnauthorized)
                return
            }
            var match *config.APIKey
            for i := range cfg.APIKeys {
                if subtle.ConstantTimeCompare([]byte(cfg.APIKeys[i].Key), []byte(key)) == 1 {
                    match = &cfg.APIKeys[i]
                    break
                }
            }
            if match == nil {
                http.Error(w, "invalid api key", http.StatusForbidden)
                return
            }
            if match.Role == roleReadOnly && mutates(r.Method) {
                slog.Warn("read-only api key used for write", "key_name", match.Name, "method", r.Method, "path", r.URL.Path)
                http.Error(w, "read-only api key", http.StatusForbidden)
                return
            }
            next.ServeHTTP(w, r)
        })
    }
}

func mutates(method string) bool {
    switch method {
    case http.MethodPut, http.MethodDelete, http.MethodPatch:
        return true
    }
    return false
}
