package keyring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
)

func TestRing_SetAndGet(t *testing.T) {
	r := New()
	r.Set(core.EnvProduction, core.Credentials{APIKey: "prod-key", Secret: []byte("prod-secret")})
	r.Set(core.EnvStaging, core.Credentials{APIKey: "stg-key", Secret: []byte("stg-secret")})

	prod, ok := r.Get(core.EnvProduction)
	require.True(t, ok)
	assert.Equal(t, "prod-key", prod.APIKey)

	stg, ok := r.Get(core.EnvStaging)
	require.True(t, ok)
	assert.Equal(t, "stg-key", stg.APIKey)
}

func TestRing_GetMissing(t *testing.T) {
	r := New()
	_, ok := r.Get(core.EnvStaging)
	assert.False(t, ok)
}

func TestRing_Remove(t *testing.T) {
	r := New()
	r.Set(core.EnvProduction, core.Credentials{APIKey: "k"})
	r.Remove(core.EnvProduction)

	_, ok := r.Get(core.EnvProduction)
	assert.False(t, ok)
}

func TestRing_StringMasksSecrets(t *testing.T) {
	r := New()
	r.Set(core.EnvProduction, core.Credentials{APIKey: "prod-key-12345", Secret: []byte("super-secret")})

	assert.NotContains(t, r.String(), "super-secret")
	assert.NotContains(t, r.String(), "prod-key-12345")
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "prod-key")
	t.Setenv(EnvAPISecret, "prod-secret")
	t.Setenv(EnvApplicationID, "prod-app")
	t.Setenv(EnvStagingAPIKey, "stg-key")
	t.Setenv(EnvStagingAPISecret, "")

	r := FromEnv()

	prod, ok := r.Get(core.EnvProduction)
	require.True(t, ok)
	assert.Equal(t, "prod-key", prod.APIKey)
	assert.Equal(t, []byte("prod-secret"), prod.Secret)
	assert.Equal(t, "prod-app", prod.ApplicationID)

	// Staging needs both key and secret; key alone is not enough.
	_, ok = r.Get(core.EnvStaging)
	assert.False(t, ok)
}

func TestCredentials_StringMasksKey(t *testing.T) {
	c := core.Credentials{APIKey: "abcdefghijkl", Secret: []byte("super-secret")}
	s := c.String()
	assert.NotContains(t, s, "super-secret")
	assert.NotContains(t, s, "abcdefghijkl")
	assert.Contains(t, s, "abcd")
}
