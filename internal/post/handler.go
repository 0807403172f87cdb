package post

import (
	"net/http"
	"strings"
	"time"

	"socialapi/internal/idem"
	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/httpx"
	"socialapi/internal/shared/validate"

	log "github.com/sirupsen/logrus"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
	maxPageSize       = 100
)

var ErrDuplicateRequest = apperr.Conflict("Duplicate request")

type Handler struct {
	svc  Service
	idem idem.Store
}

func NewHandler(s Service, keys idem.Store) *Handler {
	if keys == nil {
		keys = idem.Nop{}
	}
	return &Handler{svc: s, idem: keys}
}

func viewer(r *http.Request) string {
	id, _ := httpx.OptionalUser(r)
	return id.ID
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	in, err := httpx.Decode[CreateReq](r)
	if err != nil {
		return err
	}
	in.normalize()
	if err := validate.Struct(in); err != nil {
		return err
	}

	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key != "" {
		key = me.ID + ":" + key
		fresh, err := h.idem.PutNX(r.Context(), key, idempotencyTTL)
		switch {
		case err != nil:
			// Redis trouble must not block posting.
			log.WithError(err).Warn("idempotency check skipped")
			key = ""
		case !fresh:
			return ErrDuplicateRequest
		}
	}

	v, err := h.svc.Create(r.Context(), me.ID, in)
	if err != nil {
		if key != "" {
			_ = h.idem.Release(r.Context(), key)
		}
		return err
	}
	httpx.OK(w, http.StatusCreated, "Post created successfully", v, nil)
	return nil
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	v, err := h.svc.Get(r.Context(), r.PathValue("id"), viewer(r))
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "", v, nil)
	return nil
}

func (h *Handler) Public(w http.ResponseWriter, r *http.Request) error {
	limit, err := httpx.Limit(r, 20, maxPageSize)
	if err != nil {
		return err
	}
	skip, err := httpx.Skip(r)
	if err != nil {
		return err
	}
	views, err := h.svc.Public(r.Context(), limit, skip, viewer(r))
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "", views,
		publicMeta{Count: len(views), Limit: limit, Skip: skip, Type: "public_timeline"})
	return nil
}

func (h *Handler) ByUser(w http.ResponseWriter, r *http.Request) error {
	limit, err := httpx.Limit(r, 20, maxPageSize)
	if err != nil {
		return err
	}
	u, views, err := h.svc.ByUser(r.Context(), r.PathValue("id"), limit, viewer(r))
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "", views,
		userPostsMeta{UserID: u.ID, Username: u.Username, Count: len(views), Limit: limit})
	return nil
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	id := r.PathValue("id")
	if err := h.svc.Delete(r.Context(), id, me.ID); err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "Post deleted successfully",
		deleted{ID: id, DeletedAt: time.Now().UTC().Format(time.RFC3339)}, nil)
	return nil
}
