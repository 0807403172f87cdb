package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/httpx"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"lukechampine.com/blake3"
)

const MaxUpload = 5 << 20

var (
	ErrNoFile     = apperr.BadRequest("File is required")
	ErrNotImage   = apperr.BadRequest("Only image uploads are allowed")
	ErrFileTooBig = apperr.New(http.StatusRequestEntityTooLarge, "File must not exceed 5MB")
)

// ObjectStore is implemented by storage/s3.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	URL(key string) string
}

type uploaded struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type Handler struct{ store ObjectStore }

func NewHandler(s ObjectStore) *Handler { return &Handler{store: s} }

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	// multipart framing rides on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, MaxUpload+64<<10)
	if err := r.ParseMultipartForm(MaxUpload); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return ErrFileTooBig
		}
		return ErrNoFile
	}
	// r is a clone here, so the server's own cleanup never sees this form
	defer r.MultipartForm.RemoveAll()
	file, header, err := r.FormFile("file")
	if err != nil {
		return ErrNoFile
	}
	defer file.Close()
	if header.Size > MaxUpload {
		return ErrFileTooBig
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return err
	}
	ct := http.DetectContentType(head[:n])
	if !strings.HasPrefix(ct, "image/") {
		return ErrNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	key := objectKey(me.ID, header.Filename, ct)
	if err := h.store.Put(r.Context(), key, ct, file, header.Size); err != nil {
		return err
	}
	log.WithFields(log.Fields{"user": me.ID, "key": key, "size": header.Size}).Info("media uploaded")
	httpx.OK(w, http.StatusCreated, "File uploaded successfully",
		uploaded{URL: h.store.URL(key), Key: key, ContentType: ct, Size: header.Size}, nil)
	return nil
}

func objectKey(userID, filename, contentType string) string {
	sum := blake3.Sum256([]byte(userID + time.Now().Format(time.RFC3339Nano) + uuid.NewString()))
	return fmt.Sprintf("%x%s", sum[:16], extension(filename, contentType))
}

func extension(filename, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(filename)); ext != "" && len(ext) <= 5 {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
