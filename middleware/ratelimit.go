package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
	"github.com/kendall-kelly/pawsitter-api/logger"
)

const rateLimitedBody = `{"success":false,"error":{"code":"RATE_LIMITED","message":"Too many requests, please retry later."}}`

// RateLimit allows at most requests per window from each client IP
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiter := httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Warn().Str("path", r.URL.Path).Msg("rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitedBody))
		}),
	)

	return func(c *gin.Context) {
		allowed := false

		limiter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !allowed {
			c.Abort()
		}
	}
}
