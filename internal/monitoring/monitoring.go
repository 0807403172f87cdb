package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"socialapi/internal/shared/httpx"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	LoginSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "login_success_total",
		Help: "Total successful login attempts",
	})

	LoginFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "login_failure_total",
		Help: "Total failed login attempts",
	}, []string{"reason"})

	RegisterSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "register_success_total",
		Help: "Total successful register attempts",
	})

	PostsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_created_total",
		Help: "Total posts created",
	})

	FollowEdges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "follow_edges_total",
		Help: "Follow graph mutations by operation",
	}, []string{"op"})

	Likes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "likes_total",
		Help: "Like set mutations by operation",
	}, []string{"op"})

	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limited_total",
		Help: "Requests rejected by a rate limit rule",
	}, []string{"rule"})
)

func init() {
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(LoginSuccess)
	prometheus.MustRegister(LoginFailure)
	prometheus.MustRegister(RegisterSuccess)
	prometheus.MustRegister(PostsCreated)
	prometheus.MustRegister(FollowEdges)
	prometheus.MustRegister(Likes)
	prometheus.MustRegister(RateLimited)
}

// InstrumentHandler records request timing by method, route pattern and status.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := httpx.NewStatusWriter(w)
		next.ServeHTTP(rw, r)

		// ServeMux records the matched pattern on the request it was handed
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(rw.Status)).
			Observe(time.Since(start).Seconds())
	})
}
