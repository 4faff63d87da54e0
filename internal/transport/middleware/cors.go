package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/scknurr/tritium-v4-sub001/internal/config"
)

// CORS returns middleware that answers cross-origin requests per the
// configured allowlist. Preflight OPTIONS requests are terminated here with
// 204; everything else passes through with the allow headers attached.
func CORS(cfg config.CORSConfig) Middleware {
	allowAll := false
	allowed := make(map[string]struct{})
	for _, o := range strings.Split(cfg.AllowedOrigins, ",") {
		switch o = strings.TrimSpace(o); o {
		case "":
		case "*":
			allowAll = true
		default:
			allowed[o] = struct{}{}
		}
	}
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hdr := w.Header()
			origin := r.Header.Get("Origin")
			if origin != "" {
				if _, ok := allowed[origin]; ok || allowAll {
					hdr.Set("Access-Control-Allow-Origin", origin)
					hdr.Add("Vary", "Origin")
					if cfg.AllowCredentials {
						hdr.Set("Access-Control-Allow-Credentials", "true")
					}
				}
			}

			if r.Method == http.MethodOptions {
				hdr.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
				hdr.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
				hdr.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
