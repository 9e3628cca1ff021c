// Package accesslog provides request logging middleware.
package accesslog

import (
	"time"

	"github.com/ryanbekhen/besi"
	"github.com/ryanbekhen/besi/log"
)

// New returns middleware that logs one line per handled request: status,
// latency, method and path. Lines go to the package-level besi logger.
func New() besi.Middleware {
	return func(next besi.Handler) besi.Handler {
		return func(r *besi.Request) *besi.Response {
			start := time.Now()
			resp := next(r)
			latency := time.Since(start)

			status := 0
			if resp != nil {
				status = resp.Status
			}
			log.Info().Msgf("%d | %s | %s %s | %v",
				status, latency, r.Method, r.URL.Path, r.RemoteAddr)
			return resp
		}
	}
}
