package logger

import (
	"net/http"
	"os"
	"time"

	"socialapi/internal/shared/httpx"

	log "github.com/sirupsen/logrus"
)

func Init(level, env string) {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	log.WithFields(log.Fields{"level": lvl.String(), "env": env}).Info("logger initialized")
}

// Requests logs one line per request once the handler returns.
func Requests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := httpx.NewStatusWriter(w)
		next.ServeHTTP(sw, r)

		entry := log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   sw.Status,
			"bytes":    sw.Bytes,
			"duration": time.Since(start).String(),
			"remote":   r.RemoteAddr,
		})
		switch {
		case sw.Status >= 500:
			entry.Error("request")
		case sw.Status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	})
}
