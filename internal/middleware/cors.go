package middleware

import (
	"net/http"
	"strings"

	"github.com/aashari/go-eduverse-backend/internal/config"
	"github.com/aashari/go-eduverse-backend/internal/errors"
	"github.com/aashari/go-eduverse-backend/internal/logger"
	"github.com/aashari/go-eduverse-backend/internal/utils"
)

// CORSMiddleware allows cross-origin calls only from the configured origins.
// Other origins get no CORS headers and their preflight requests are refused.
func CORSMiddleware(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = true
	}
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(utils.HeaderOrigin)
			preflight := r.Method == http.MethodOptions && r.Header.Get(utils.HeaderAccessControlRequestMethod) != ""

			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add(utils.HeaderVary, utils.HeaderOrigin)

			if !allowed[origin] {
				if preflight {
					ctx := logger.WithComponent(r.Context(), logger.ComponentNames.Middleware)
					logger.Warn(ctx, "CORS preflight rejected", "origin", origin, "path", r.URL.Path)
					errors.HandleErrorCtx(ctx, w, errors.NewAPIError(errors.ErrorTypeForbidden, "Origin not allowed"), http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(utils.HeaderAccessControlAllowOrigin, origin)
			w.Header().Set(utils.HeaderAccessControlExposeHeaders, utils.CORSExposeHeadersStd)

			if preflight {
				w.Header().Set(utils.HeaderAccessControlAllowMethods, methods)
				w.Header().Set(utils.HeaderAccessControlAllowHeaders, headers)
				w.Header().Set(utils.HeaderAccessControlMaxAge, utils.CORSMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
