package like

import (
	"net/http"

	"socialapi/internal/shared/httpx"
	"socialapi/internal/user"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	l, err := h.svc.Like(r.Context(), me.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusCreated, "Post liked successfully",
		liked{PostID: l.PostID, UserID: l.UserID, CreatedAt: l.CreatedAt}, nil)
	return nil
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	postID := r.PathValue("id")
	if err := h.svc.Unlike(r.Context(), me.ID, postID); err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "Post unliked successfully", unliked{PostID: postID, UserID: me.ID}, nil)
	return nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	postID := r.PathValue("id")
	likes, err := h.svc.List(r.Context(), postID)
	if err != nil {
		return err
	}
	out := make([]likeView, 0, len(likes))
	for i := range likes {
		out = append(out, likeView{
			UserID:    likes[i].UserID,
			CreatedAt: likes[i].CreatedAt,
			User:      user.ToPublic(&likes[i].User),
		})
	}
	httpx.OK(w, http.StatusOK, "", out, listMeta{PostID: postID, Count: len(out)})
	return nil
}
