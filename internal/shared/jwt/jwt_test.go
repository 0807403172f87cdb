package jwt

import (
	"testing"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeParseRoundTrip(t *testing.T) {
	c := NewCodec("s3cret", time.Hour)
	tok, err := c.Make(Claims{UserID: "u-1", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	cl, err := c.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", cl.UserID)
	assert.Equal(t, "alice", cl.Username)
}

func TestParseExpired(t *testing.T) {
	c := NewCodec("s3cret", time.Hour)
	c.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := c.Make(Claims{UserID: "u-1"})
	require.NoError(t, err)

	c.now = time.Now
	_, err = c.Parse(tok)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestParseRejectsForeignSecret(t *testing.T) {
	tok, err := NewCodec("other", time.Hour).Make(Claims{UserID: "u-1"})
	require.NoError(t, err)

	_, err = NewCodec("s3cret", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsMissingSubject(t *testing.T) {
	raw, err := jw.NewWithClaims(jw.SigningMethodHS256, jw.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	_, err = NewCodec("s3cret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseGarbage(t *testing.T) {
	_, err := NewCodec("s3cret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}
