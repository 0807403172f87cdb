// Package app wires stores, services and handlers into the HTTP surface.
package app

import (
	"net/http"
	"time"

	"socialapi/configs"
	"socialapi/internal/auth"
	"socialapi/internal/feed"
	"socialapi/internal/health"
	"socialapi/internal/idem"
	"socialapi/internal/kafka"
	"socialapi/internal/like"
	"socialapi/internal/media"
	"socialapi/internal/monitoring"
	"socialapi/internal/post"
	"socialapi/internal/ratelimit"
	"socialapi/internal/shared/db"
	"socialapi/internal/shared/httpx"
	"socialapi/internal/shared/jwt"
	"socialapi/internal/shared/logger"
	"socialapi/internal/social"
	"socialapi/internal/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	bodyLimit = 1 << 20
	version   = "1.0.0"
)

// Deps are the process-wide handles created in main. Redis, Events and
// Media are optional.
type Deps struct {
	Config *configs.Config
	Store  *db.Store
	Redis  *redis.Client
	Events kafka.Publisher
	Media  media.ObjectStore
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	events := d.Events
	if events == nil {
		events = kafka.Nop{}
	}
	httpx.SetProduction(cfg.IsProduction())

	var (
		limiter *ratelimit.Limiter
		keys    idem.Store = idem.Nop{}
	)
	if d.Redis != nil {
		limiter = ratelimit.New(d.Redis, cfg.RateLimitEnabled)
		keys = idem.New(d.Redis)
	}

	userRepo := user.NewRepository(d.Store)
	postRepo := post.NewRepository(d.Store)
	followRepo := social.NewRepository(d.Store)
	likeRepo := like.NewRepository(d.Store)

	tokens := jwt.NewCodec(cfg.JWTSecret, cfg.JWTExpiresIn)
	gate := auth.NewGate(tokens, userRepo)

	userSvc := user.NewService(userRepo, postRepo, followRepo, events, cfg.BcryptCost)
	postSvc := post.NewService(postRepo, userRepo, likeRepo, events)
	socialSvc := social.NewService(followRepo, userRepo, events)
	likeSvc := like.NewService(likeRepo, postRepo, events)
	feedSvc := feed.NewService(followRepo, postSvc)

	mux := http.NewServeMux()
	protect := func(pattern string, h http.Handler) {
		mux.Handle(pattern, gate.Required(h))
	}
	optional := func(pattern string, h http.Handler) {
		mux.Handle(pattern, gate.Optional(h))
	}

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, map[string]string{
			"message": "Social Media API",
			"status":  "running",
			"version": version,
		}, http.StatusOK)
	})

	hh := health.NewHandler(d.Store, userRepo, postRepo, followRepo, likeRepo)
	mux.Handle("GET /api/health", httpx.Wrap(hh.Live))
	mux.Handle("GET /api/health/db", httpx.Wrap(hh.Database))

	uh := user.NewHandler(userSvc, tokens)
	authLimit := limiter.Limit(ratelimit.Auth)
	mux.Handle("POST /api/auth/register", authLimit(httpx.Wrap(uh.Register)))
	mux.Handle("POST /api/auth/login", authLimit(httpx.Wrap(uh.Login)))
	protect("GET /api/auth/me", httpx.Wrap(uh.Me))
	protect("PUT /api/auth/profile", httpx.Wrap(uh.UpdateProfile))

	mux.Handle("GET /api/users/search", httpx.Wrap(uh.Search))
	mux.Handle("GET /api/users/{id}", httpx.Wrap(uh.GetByID))

	sh := social.NewHandler(socialSvc)
	protect("POST /api/users/{id}/follow", httpx.Wrap(sh.Follow))
	protect("DELETE /api/users/{id}/follow", httpx.Wrap(sh.Unfollow))
	protect("GET /api/users/{id}/follow-status", httpx.Wrap(sh.Status))
	mux.Handle("GET /api/users/{id}/followers", httpx.Wrap(sh.Followers))
	mux.Handle("GET /api/users/{id}/following", httpx.Wrap(sh.Following))

	ph := post.NewHandler(postSvc, keys)
	optional("GET /api/users/{id}/posts", httpx.Wrap(ph.ByUser))
	optional("GET /api/posts", httpx.Wrap(ph.Public))
	protect("POST /api/posts", limiter.Limit(ratelimit.PostCreation)(httpx.Wrap(ph.Create)))
	optional("GET /api/posts/{id}", httpx.Wrap(ph.Get))
	protect("DELETE /api/posts/{id}", httpx.Wrap(ph.Delete))

	lh := like.NewHandler(likeSvc)
	protect("POST /api/posts/{id}/like", httpx.Wrap(lh.Like))
	protect("DELETE /api/posts/{id}/like", httpx.Wrap(lh.Unlike))
	mux.Handle("GET /api/posts/{id}/likes", httpx.Wrap(lh.List))

	protect("GET /api/feed", httpx.Wrap(feed.NewHandler(feedSvc).Get))

	if d.Media != nil {
		protect("POST /api/media", httpx.Wrap(media.NewHandler(d.Media).Upload))
	}

	mux.HandleFunc("/", httpx.NotFound)

	return httpx.Chain(mux,
		func(h http.Handler) http.Handler { return otelhttp.NewHandler(h, "http.server") },
		monitoring.InstrumentHandler,
		logger.Requests,
		httpx.Recover,
		httpx.SecurityHeaders,
		httpx.CORS(cfg.AllowedOrigins),
		httpx.BodyLimit(bodyLimit, "/api/media"),
		limiter.Limit(ratelimit.General),
	)
}

// Server applies the listener timeouts used in every environment.
func Server(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}
