package social

import (
	"fmt"
	"net/http"

	"socialapi/internal/shared/httpx"
	"socialapi/internal/user"
)

type Handler struct{ svc Service }

func NewHandler(s Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	target := r.PathValue("id")
	followee, err := h.svc.Follow(r.Context(), me.ID, target)
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusCreated, fmt.Sprintf("You are now following %s", followee.Username),
		followResult{FolloweeID: followee.ID, FolloweeName: followee.Username}, nil)
	return nil
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	followee, err := h.svc.Unfollow(r.Context(), me.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, fmt.Sprintf("You are no longer following %s", followee.Username),
		followResult{FolloweeID: followee.ID, FolloweeName: followee.Username}, nil)
	return nil
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) error {
	u, list, err := h.svc.Followers(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	writeList(w, u, list)
	return nil
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) error {
	u, list, err := h.svc.Following(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	writeList(w, u, list)
	return nil
}

func writeList(w http.ResponseWriter, u *user.User, list []user.User) {
	out := user.ToPublicList(list)
	httpx.OK(w, http.StatusOK, "", out, listMeta{UserID: u.ID, Username: u.Username, Count: len(out)})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	followee, ok, err := h.svc.Status(r.Context(), me.ID, r.PathValue("id"))
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "", status{UserID: followee.ID, Username: followee.Username, IsFollowing: ok}, nil)
	return nil
}
