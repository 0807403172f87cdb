package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"socialapi/internal/monitoring"
	"socialapi/internal/shared/httpx"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type KeyFunc func(*http.Request) string

// Rule is one fixed-window budget. FailuresOnly counts only responses with
// status >= 400, so successful requests never consume the budget.
type Rule struct {
	Name         string
	Limit        int64
	Window       time.Duration
	Message      string
	Key          KeyFunc
	FailuresOnly bool
}

var (
	General = Rule{
		Name: "general", Limit: 100, Window: 15 * time.Minute, Key: ClientIP,
		Message: "Too many requests from this IP, please try again later.",
	}
	Auth = Rule{
		Name: "auth", Limit: 5, Window: 15 * time.Minute, Key: ClientIP, FailuresOnly: true,
		Message: "Too many authentication attempts, please try again later.",
	}
	PostCreation = Rule{
		Name: "post", Limit: 20, Window: time.Hour, Key: UserOrIP,
		Message: "Too many posts created, please try again later.",
	}
)

type Limiter struct {
	R       *redis.Client
	enabled bool
}

func New(r *redis.Client, enabled bool) *Limiter { return &Limiter{R: r, enabled: enabled} }

func key(rule, k string) string { return "rl:" + rule + ":" + k }

// Hit counts one request in the window that starts with the first hit.
func (l *Limiter) Hit(ctx context.Context, k string, window time.Duration) (int64, time.Duration, error) {
	pipe := l.R.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.TTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, 0, err
	}
	left := ttl.Val()
	if left < 0 {
		if err := l.R.Expire(ctx, k, window).Err(); err != nil {
			return 0, 0, err
		}
		left = window
	}
	return incr.Val(), left, nil
}

func (l *Limiter) Peek(ctx context.Context, k string) (int64, time.Duration, error) {
	pipe := l.R.Pipeline()
	get := pipe.Get(ctx, k)
	ttl := pipe.TTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return 0, 0, err
	}
	n, _ := get.Int64()
	return n, ttl.Val(), nil
}

// Limit enforces rule in front of next. A limiter outage lets traffic through.
func (l *Limiter) Limit(rule Rule) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil || !l.enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(rule.Name, rule.Key(r))
			var (
				n    int64
				left time.Duration
				err  error
			)
			if rule.FailuresOnly {
				n, left, err = l.Peek(r.Context(), k)
				n++
			} else {
				n, left, err = l.Hit(r.Context(), k, rule.Window)
			}
			if err != nil {
				log.WithError(err).WithField("rule", rule.Name).Warn("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("RateLimit-Limit", strconv.FormatInt(rule.Limit, 10))
			h.Set("RateLimit-Remaining", strconv.FormatInt(max(rule.Limit-n, 0), 10))
			if left > 0 {
				h.Set("RateLimit-Reset", strconv.Itoa(int(left.Seconds())))
			}
			if n > rule.Limit {
				monitoring.RateLimited.WithLabelValues(rule.Name).Inc()
				if left > 0 {
					h.Set("Retry-After", strconv.Itoa(int(left.Seconds())))
				}
				httpx.WriteError(w, http.StatusTooManyRequests, rule.Message)
				return
			}
			if !rule.FailuresOnly {
				next.ServeHTTP(w, r)
				return
			}

			sw := httpx.NewStatusWriter(w)
			next.ServeHTTP(sw, r)
			if sw.Status >= http.StatusBadRequest {
				if _, _, err := l.Hit(context.WithoutCancel(r.Context()), k, rule.Window); err != nil {
					log.WithError(err).WithField("rule", rule.Name).Warn("rate limiter unavailable")
				}
			}
		})
	}
}

func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func UserOrIP(r *http.Request) string {
	if id, ok := httpx.OptionalUser(r); ok {
		return "u:" + id.ID
	}
	return "ip:" + ClientIP(r)
}
