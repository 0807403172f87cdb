package jwt

import (
	"errors"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("Invalid token")
	ErrExpired = errors.New("Token has expired")
)

type Claims struct {
	UserID   string
	Username string
	Email    string
}

type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	return &Codec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (c *Codec) Make(cl Claims) (string, error) {
	now := c.now()
	claims := jw.MapClaims{
		"sub":      cl.UserID,
		"username": cl.Username,
		"email":    cl.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(c.ttl).Unix(),
	}
	return jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(c.secret)
}

func (c *Codec) Parse(tok string) (Claims, error) {
	t, err := jw.Parse(tok,
		func(t *jw.Token) (any, error) { return c.secret, nil },
		jw.WithValidMethods([]string{jw.SigningMethodHS256.Alg()}),
		jw.WithExpirationRequired(),
		jw.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jw.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrInvalid
	}
	mc, ok := t.Claims.(jw.MapClaims)
	if !ok || !t.Valid {
		return Claims{}, ErrInvalid
	}
	uid, _ := mc["sub"].(string)
	if uid == "" {
		return Claims{}, ErrInvalid
	}
	username, _ := mc["username"].(string)
	email, _ := mc["email"].(string)
	return Claims{UserID: uid, Username: username, Email: email}, nil
}
