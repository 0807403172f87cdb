package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"socialapi/internal/shared/apperr"

	"github.com/go-playground/validator/v10"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	controlRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

var v = newValidator()

func newValidator() *validator.Validate {
	vd := validator.New(validator.WithRequiredStructEnabled())
	vd.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = vd.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})
	_ = vd.RegisterValidation("mail", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	return vd
}

// messages maps "<json field>.<tag>" to the client-facing text.
var messages = map[string]string{
	"username.required": "Username is required",
	"username.min":      "Username must be between 3 and 30 characters",
	"username.max":      "Username must be between 3 and 30 characters",
	"username.username": "Username can only contain letters, numbers, and underscores",
	"email.required":    "Email is required",
	"email.mail":        "Please provide a valid email address",
	"email.max":         "Email is too long",
	"password.required": "Password is required",
	"password.min":      "Password must be between 6 and 128 characters",
	"password.max":      "Password must be between 6 and 128 characters",
	"name.min":          "Name must be between 1 and 100 characters",
	"name.max":          "Name must be between 1 and 100 characters",
	"bio.max":           "Bio must not exceed 500 characters",
	"avatar.url":        "Avatar must be a valid URL",
	"avatar.max":        "Avatar URL is too long",
	"text.required":     "Post text is required",
	"text.min":          "Post text must be between 1 and 500 characters",
	"text.max":          "Post text must be between 1 and 500 characters",
	"mediaUrl.url":      "Media URL must be a valid URL",
	"mediaUrl.max":      "Media URL is too long",
}

// Struct returns nil or an *apperr.Error carrying one message per failed field.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	details := make([]string, 0, len(ves))
	seen := make(map[string]bool, len(ves))
	for _, fe := range ves {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		if !seen[msg] {
			seen[msg] = true
			details = append(details, msg)
		}
	}
	return apperr.Validation(details)
}

// Sanitize strips ASCII control characters other than tab, LF and CR.
func Sanitize(s string) string {
	return controlRe.ReplaceAllString(s, "")
}

func SanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	out := Sanitize(*s)
	return &out
}
