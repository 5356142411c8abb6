package http

import (
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"
)

// RateLimit returns chi middleware that rejects clients whose bucket is
// empty with a 429 and a Retry-After header in whole seconds.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Capacity()))

			allowed, retryAfter := limiter.Allow(ip)
			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				log.Printf("Warning: rate limit exceeded for %s (request %s)", ip, middleware.GetReqID(r.Context()))
				writeJSON(w, http.StatusTooManyRequests, errorResponse{
					Message:    fmt.Sprintf("rate limit exceeded, retry in %ds", seconds),
					Error:      "rate_limited",
					StatusCode: http.StatusTooManyRequests,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
