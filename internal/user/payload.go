package user

import (
	"strings"

	"socialapi/internal/shared/validate"
)

type RegisterReq struct {
	Username string  `json:"username" validate:"required,min=3,max=30,username"`
	Email    string  `json:"email" validate:"required,mail,max=255"`
	Password string  `json:"password" validate:"required,min=6,max=128"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=100"`
}

func (r *RegisterReq) normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	if r.Name != nil {
		n := strings.TrimSpace(validate.Sanitize(*r.Name))
		if n == "" {
			r.Name = nil
		} else {
			r.Name = &n
		}
	}
}

type LoginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileReq distinguishes an absent field (nil) from one being cleared ("").
type UpdateProfileReq struct {
	Name   *string `json:"name"`
	Bio    *string `json:"bio"`
	Avatar *string `json:"avatar"`
}

type profileFields struct {
	Name   string `json:"name" validate:"omitempty,max=100"`
	Bio    string `json:"bio" validate:"omitempty,max=500"`
	Avatar string `json:"avatar" validate:"omitempty,url,max=500"`
}

func (r *UpdateProfileReq) normalize() {
	r.Name = validate.SanitizePtr(r.Name)
	r.Bio = validate.SanitizePtr(r.Bio)
	if r.Avatar != nil {
		a := strings.TrimSpace(*r.Avatar)
		r.Avatar = &a
	}
}

func (r *UpdateProfileReq) fields() profileFields {
	var f profileFields
	if r.Name != nil {
		f.Name = *r.Name
	}
	if r.Bio != nil {
		f.Bio = *r.Bio
	}
	if r.Avatar != nil {
		f.Avatar = *r.Avatar
	}
	return f
}

// AuthUser is the user block returned by register and login.
type AuthUser struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Name     *string `json:"name,omitempty"`
}

type authResp struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    AuthUser `json:"data"`
	Token   string   `json:"token"`
}
