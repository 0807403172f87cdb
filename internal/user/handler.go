package user

import (
	"net/http"
	"strings"

	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/httpx"
	"socialapi/internal/shared/jwt"
	"socialapi/internal/shared/validate"
)

type Handler struct {
	svc    Service
	tokens *jwt.Codec
}

func NewHandler(s Service, tokens *jwt.Codec) *Handler { return &Handler{svc: s, tokens: tokens} }

func (h *Handler) issue(w http.ResponseWriter, u *User, msg string, code int) error {
	token, err := h.tokens.Make(jwt.Claims{UserID: u.ID, Username: u.Username, Email: u.Email})
	if err != nil {
		return err
	}
	httpx.WriteJSON(w, authResp{
		Success: true,
		Message: msg,
		Data:    AuthUser{ID: u.ID, Username: u.Username, Email: u.Email, Name: u.Name},
		Token:   token,
	}, code)
	return nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[RegisterReq](r)
	if err != nil {
		return err
	}
	body.normalize()
	if err = validate.Struct(body); err != nil {
		return err
	}
	u, err := h.svc.Register(r.Context(), body)
	if err != nil {
		return err
	}
	return h.issue(w, u, "User registered successfully", http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) error {
	body, err := httpx.Decode[LoginReq](r)
	if err != nil {
		return err
	}
	body.Username = strings.TrimSpace(body.Username)
	if err = validate.Struct(body); err != nil {
		return err
	}
	u, err := h.svc.Login(r.Context(), body.Username, body.Password)
	if err != nil {
		return err
	}
	return h.issue(w, u, "Login successful", http.StatusOK)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	p, err := h.svc.Profile(r.Context(), me.ID)
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "", p, nil)
	return nil
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	body, err := httpx.Decode[UpdateProfileReq](r)
	if err != nil {
		return err
	}
	body.normalize()
	if err = validate.Struct(body.fields()); err != nil {
		return err
	}
	u, err := h.svc.UpdateProfile(r.Context(), me.ID, body)
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "Profile updated successfully", ToPublic(u), nil)
	return nil
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) error {
	p, err := h.svc.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "", p, nil)
	return nil
}

type searchMeta struct {
	Query string `json:"query"`
	Count int    `json:"count"`
	Limit int    `json:"limit"`
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) error {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		return apperr.BadRequest("Search query is required")
	}
	limit, err := httpx.Limit(r, 10, 50)
	if err != nil {
		return err
	}
	users, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		return err
	}
	out := ToPublicList(users)
	httpx.OK(w, http.StatusOK, "", out, searchMeta{Query: q, Count: len(out), Limit: limit})
	return nil
}
