package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultSecretsDir = "/run/secrets"

	// apiKeySecret is the docker secret holding the Gemini credential
	apiKeySecret  = "gemini_api_key"
	apiKeyFileEnv = "GEMINI_API_KEY_FILE"
)

// apiKeyEnvVars are checked in order. NUXT_GEMINI_API_KEY is what the
// previous deployment used and is still set on some hosts.
var apiKeyEnvVars = []string{"GEMINI_API_KEY", "NUXT_GEMINI_API_KEY"}

// APIKeyProvider returns the current credential for the generative API.
// An empty string means the credential is not configured.
type APIKeyProvider interface {
	APIKey() string
}

// EnvKeyProvider resolves the key from the process environment on every
// call so a rotated key is picked up without a restart.
type EnvKeyProvider struct {
	SecretsDir string
}

// NewEnvKeyProvider creates a provider that falls back to docker secrets in secretsDir
func NewEnvKeyProvider(secretsDir string) *EnvKeyProvider {
	return &EnvKeyProvider{SecretsDir: secretsDir}
}

// APIKey implements APIKeyProvider
func (p *EnvKeyProvider) APIKey() string {
	for _, name := range apiKeyEnvVars {
		if value := strings.TrimSpace(os.Getenv(name)); value != "" {
			return value
		}
	}

	if path := os.Getenv(apiKeyFileEnv); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if value := strings.TrimSpace(string(data)); value != "" {
				return value
			}
		}
	}

	return readSecret(p.SecretsDir, apiKeySecret)
}

// StaticKeyProvider always returns the same key
type StaticKeyProvider string

// APIKey implements APIKeyProvider
func (k StaticKeyProvider) APIKey() string {
	return string(k)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(dir, name string) string {
	if dir == "" {
		dir = os.Getenv("SECRETS_DIR")
	}
	if dir == "" {
		dir = defaultSecretsDir
	}
	if data, err := os.ReadFile(filepath.Join(dir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
