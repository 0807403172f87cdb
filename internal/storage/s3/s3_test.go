package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL(t *testing.T) {
	st, err := New(Config{Endpoint: "http://minio:9000", AccessKey: "k", SecretKey: "s", Bucket: "media"})
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/media/abc.png", st.URL("abc.png"))

	st, err = New(Config{Endpoint: "s3.example.com", UseSSL: true, Bucket: "media"})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/media/abc.png", st.URL("abc.png"))

	st, err = New(Config{Endpoint: "minio:9000", Bucket: "media", PublicURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/abc.png", st.URL("abc.png"))
}
