package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("DB_REPLICA_HOSTS", "")

	c := LoadConfig()
	assert.Equal(t, ":3000", c.AppPort)
	assert.Equal(t, 24*time.Hour, c.JWTExpiresIn)
	assert.Equal(t, 12, c.BcryptCost)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, c.AllowedOrigins)
	assert.Empty(t, c.ReplicaDSNs())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "7d")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_REPLICA_HOSTS", "replica-1,replica-2:6543")
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "n")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_SSLMODE", "disable")

	c := LoadConfig()
	assert.Equal(t, 7*24*time.Hour, c.JWTExpiresIn)
	assert.Contains(t, c.AllowedOrigins, "https://b.example")
	dsns := c.ReplicaDSNs()
	if assert.Len(t, dsns, 2) {
		assert.Equal(t, "host=replica-1 port=5432 user=u password=p dbname=n sslmode=disable", dsns[0])
		assert.Equal(t, "host=replica-2 port=6543 user=u password=p dbname=n sslmode=disable", dsns[1])
	}
}

func TestDurationDefFallsBack(t *testing.T) {
	assert.Equal(t, time.Hour, durationDef("garbage", time.Hour))
	assert.Equal(t, 90*time.Minute, durationDef("90m", time.Hour))
}

func TestValidateRejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	c := LoadConfig()
	assert.ErrorIs(t, c.Validate(), ErrInsecureJWTSecret)

	t.Setenv("JWT_SECRET", "a-real-secret")
	assert.NoError(t, LoadConfig().Validate())
}

func TestValidateAllowsDefaultSecretOutsideProduction(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	c := LoadConfig()
	assert.Equal(t, devJWTSecret, c.JWTSecret)
	assert.NoError(t, c.Validate())
}
