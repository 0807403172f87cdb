package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/db"
	"socialapi/internal/shared/jwt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Envelope is the success body shared by every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
	Token   string `json:"token,omitempty"`
}

type APIError struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

type Identity struct {
	ID       string
	Username string
	Email    string
}

type ctxKey struct{}

var (
	ErrUnauthorized = apperr.Unauthorized("Access token required")
	ErrInvalidJSON  = apperr.BadRequest("Invalid JSON in request body")
	ErrTooLarge     = apperr.New(http.StatusRequestEntityTooLarge, "Request entity too large")

	production atomic.Bool
)

// SetProduction hides the text of unexpected errors from clients.
func SetProduction(p bool) { production.Store(p) }

func WriteJSON(w http.ResponseWriter, v any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, code int, msg string, data, meta any) {
	WriteJSON(w, Envelope{Success: true, Message: msg, Data: data, Meta: meta}, code)
}

func WriteError(w http.ResponseWriter, status int, msg string, details ...string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	WriteJSON(w, APIError{Success: false, Error: msg, Details: details}, status)
}

// Translate maps any handler error onto a status and client-facing message.
func Translate(err error) (int, string, []string) {
	var ae *apperr.Error
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &ae):
		return ae.Status, ae.Message, ae.Details
	case errors.As(err, &mbe):
		return ErrTooLarge.Status, ErrTooLarge.Message, nil
	case db.IsDuplicate(err):
		return http.StatusConflict, db.DuplicateField(err) + " already exists", nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Record not found", nil
	case db.IsForeignKey(err):
		return http.StatusBadRequest, "Referenced record does not exist", nil
	case errors.Is(err, jwt.ErrExpired):
		return http.StatusUnauthorized, jwt.ErrExpired.Error(), nil
	case errors.Is(err, jwt.ErrInvalid):
		return http.StatusUnauthorized, jwt.ErrInvalid.Error(), nil
	case db.IsConnection(err):
		return http.StatusServiceUnavailable, "Database connection failed", nil
	}
	if production.Load() {
		return http.StatusInternalServerError, "Internal server error", nil
	}
	return http.StatusInternalServerError, err.Error(), nil
}

func Wrap(fn HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			code, msg, details := Translate(err)
			if code >= http.StatusInternalServerError {
				log.WithError(err).WithFields(log.Fields{
					"method": r.Method, "path": r.URL.Path, "status": code,
				}).Error("request failed")
			}
			WriteError(w, code, msg, details...)
		}
	})
}

// Decode reads one JSON document; an absent body decodes to the zero value.
func Decode[T any](r *http.Request) (T, error) {
	var t T
	err := json.NewDecoder(r.Body).Decode(&t)
	if err == nil || errors.Is(err, io.EOF) {
		return t, nil
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return t, ErrTooLarge
	}
	return t, ErrInvalidJSON
}

func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func UserFromCtx(r *http.Request) (Identity, error) {
	id, ok := OptionalUser(r)
	if !ok {
		return Identity{}, ErrUnauthorized
	}
	return id, nil
}

func OptionalUser(r *http.Request) (Identity, bool) {
	id, _ := r.Context().Value(ctxKey{}).(Identity)
	return id, id.ID != ""
}

// Limit parses ?limit and rejects values over max instead of clamping.
func Limit(r *http.Request, def, max int) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get("limit"))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.BadRequest("Limit must be a number")
	}
	if n > max {
		return 0, apperr.Newf(http.StatusBadRequest, "Limit cannot exceed %d", max)
	}
	if n < 1 {
		return 0, apperr.BadRequest("Limit must be at least 1")
	}
	return n, nil
}

func Skip(r *http.Request) (int, error) {
	s := strings.TrimSpace(r.URL.Query().Get("skip"))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, apperr.BadRequest("Skip must be a non-negative number")
	}
	return n, nil
}
