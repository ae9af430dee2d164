// Package keyring stores API credentials per environment. Production and
// staging use distinct keys, and applications talking to both need to hold
// both sets without ever logging secret material.
package keyring

import (
	"fmt"
	"os"
	"sync"

	"nakula/pkg/core"
)

// Environment variable names for credential discovery.
const (
	EnvAPIKey        = "WOO_API_KEY"
	EnvAPISecret     = "WOO_API_SECRET"
	EnvApplicationID = "WOO_APPLICATION_ID"

	EnvStagingAPIKey        = "WOO_STAGING_API_KEY"
	EnvStagingAPISecret     = "WOO_STAGING_API_SECRET"
	EnvStagingApplicationID = "WOO_STAGING_APPLICATION_ID"
)

// Ring holds one set of credentials per environment. It is safe for
// concurrent use; credentials are copied in and out so callers cannot
// mutate stored state.
type Ring struct {
	mu    sync.RWMutex
	creds map[core.Environment]core.Credentials
}

// New creates an empty Ring.
func New() *Ring {
	return &Ring{creds: make(map[core.Environment]core.Credentials)}
}

// Set stores the credentials for an environment, replacing any existing set.
func (r *Ring) Set(env core.Environment, creds core.Credentials) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creds[env] = creds
}

// Get returns the credentials for an environment.
func (r *Ring) Get(env core.Environment) (core.Credentials, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	creds, ok := r.creds[env]
	return creds, ok
}

// Remove deletes the credentials for an environment.
func (r *Ring) Remove(env core.Environment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.creds, env)
}

// Environments returns the environments that have credentials configured.
func (r *Ring) Environments() []core.Environment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	envs := make([]core.Environment, 0, len(r.creds))
	for env := range r.creds {
		envs = append(envs, env)
	}
	return envs
}

// FromEnv builds a Ring from the process environment. Each environment's
// entry is present only when both its key and secret variables are set.
func FromEnv() *Ring {
	r := New()
	if key, secret := os.Getenv(EnvAPIKey), os.Getenv(EnvAPISecret); key != "" && secret != "" {
		r.Set(core.EnvProduction, core.Credentials{
			APIKey:        key,
			Secret:        []byte(secret),
			ApplicationID: os.Getenv(EnvApplicationID),
		})
	}
	if key, secret := os.Getenv(EnvStagingAPIKey), os.Getenv(EnvStagingAPISecret); key != "" && secret != "" {
		r.Set(core.EnvStaging, core.Credentials{
			APIKey:        key,
			Secret:        []byte(secret),
			ApplicationID: os.Getenv(EnvStagingApplicationID),
		})
	}
	return r
}

// String returns a masked rendering; secrets never appear.
func (r *Ring) String() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return fmt.Sprintf("Ring{environments:%d}", len(r.creds))
}
