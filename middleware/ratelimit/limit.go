// Package ratelimit provides per-client request rate limiting middleware.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ryanbekhen/besi"
	"golang.org/x/time/rate"
)

// Config holds the rate limiting settings: requests per duration, burst
// size and how long an idle visitor entry is kept.
type Config struct {
	Requests  int           // Max requests per duration
	Burst     int           // Burst size
	Duration  time.Duration // Duration window (e.g., 1 minute)
	ExpiresIn time.Duration // Visitor entry expiration
}

// DefaultConfig returns one request per second, no burst, one hour visitor
// expiration.
func DefaultConfig() Config {
	return Config{
		Requests:  1,
		Burst:     0,
		Duration:  time.Second,
		ExpiresIn: time.Hour,
	}
}

// extensionKey is the capability key under which the middleware stores the
// visitor's limiter in the request Extensions.
type extensionKey struct{}

// Visitor represents a client with a rate limiter and the last recorded
// activity time.
type Visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a per-remote-IP rate limiter usable as besi middleware.
type Limiter struct {
	cfg      Config
	mu       sync.Mutex
	visitors map[string]*Visitor
}

// New creates a Limiter. If no config is given, DefaultConfig is used.
func New(config ...Config) *Limiter {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	l := &Limiter{
		cfg:      cfg,
		visitors: make(map[string]*Visitor),
	}
	go l.cleanupVisitors()
	return l
}

// Middleware returns the besi middleware function. Requests over the limit
// are answered with 429 without reaching the next handler; allowed requests
// carry their visitor's limiter in the Extensions store so downstream
// handlers can inspect remaining capacity.
func (l *Limiter) Middleware() besi.Middleware {
	return func(next besi.Handler) besi.Handler {
		return func(r *besi.Request) *besi.Response {
			limiter := l.visitor(clientIP(r))
			if !limiter.Allow() {
				return besi.ErrorResponse(http.StatusTooManyRequests, "limit reached")
			}
			r.Extensions.Set(extensionKey{}, limiter)
			return next(r)
		}
	}
}

// FromRequest returns the limiter the middleware attached to r, if any.
func FromRequest(r *besi.Request) (*rate.Limiter, bool) {
	return besi.GetExtension[*rate.Limiter](r.Extensions, extensionKey{})
}

// visitor returns the limiter for ip, creating it on first sight.
func (l *Limiter) visitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		interval := l.cfg.Duration / time.Duration(l.cfg.Requests)
		limiter := rate.NewLimiter(rate.Every(interval), l.cfg.Burst)
		l.visitors[ip] = &Visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanupVisitors periodically drops visitor entries that have been idle
// longer than ExpiresIn.
func (l *Limiter) cleanupVisitors() {
	interval := time.Minute
	if l.cfg.ExpiresIn < time.Minute {
		interval = l.cfg.ExpiresIn / 2
	}

	for {
		time.Sleep(interval)
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > l.cfg.ExpiresIn {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

// clientIP extracts the bare IP from the request's remote address.
func clientIP(r *besi.Request) string {
	if r.RemoteAddr == nil {
		return ""
	}
	addr := r.RemoteAddr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
