package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/forto/backoffice/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Headers the back-office client cannot work without, added to any configured list
var requiredCORSHeaders = []string{"Authorization", "Content-Type", IdempotencyKeyHeader, "X-Request-ID"}

// CORSMiddleware allows the back-office web client to call the gateway.
// A "*" origin turns off credentials, which browsers refuse to combine with a wildcard.
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	return cors.New(corsConfig(cfg))
}

func corsConfig(cfg *config.CORSConfig) cors.Config {
	c := cors.Config{
		AllowMethods: cfg.AllowedMethods,
		AllowHeaders: mergeHeaders(cfg.AllowedHeaders, requiredCORSHeaders),
		ExposeHeaders: []string{
			"Content-Disposition",
			"Location",
			"X-Request-ID",
			"X-Idempotency-Replayed",
		},
		MaxAge: 12 * time.Hour,
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	if slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
		c.AllowCredentials = true
	}
	return c
}

func mergeHeaders(configured, required []string) []string {
	out := make([]string, 0, len(configured)+len(required))
	seen := make(map[string]bool)
	for _, h := range append(slices.Clone(configured), required...) {
		h = strings.TrimSpace(h)
		key := http.CanonicalHeaderKey(h)
		if h == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}
