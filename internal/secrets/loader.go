package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret can be found. File wins over Env, Env wins
// over Value.
type Source struct {
	// Name is used in error messages to give more context about the secret.
	Name string
	// Value is an inline secret value provided via configuration or flags.
	Value string
	// Env names an environment variable holding the secret.
	Env string
	// File points to a file containing the secret value.
	File string
}

// Configured reports whether any location of the secret is set.
func (s Source) Configured() bool {
	if strings.TrimSpace(s.File) != "" || strings.TrimSpace(s.Value) != "" {
		return true
	}
	return s.Env != "" && strings.TrimSpace(os.Getenv(s.Env)) != ""
}

// Load returns the resolved secret value from the provided source. The
// returned secret is always trimmed. An error is returned when no location
// holds a usable secret.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		secret := strings.TrimSpace(string(data))
		if secret == "" {
			return "", fmt.Errorf("%s file %q is empty", name, file)
		}
		return secret, nil
	}

	if src.Env != "" {
		if secret := strings.TrimSpace(os.Getenv(src.Env)); secret != "" {
			return secret, nil
		}
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
