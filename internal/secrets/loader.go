package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a secret may come from.
type Source struct {
	// Name is used in error messages.
	Name string
	// Value is an inline secret from configuration or flags.
	Value string
	// Env names an environment variable holding the secret. It beats Value.
	Env string
	// File points to a file holding the secret. It beats Env and Value.
	File string
}

// Load resolves the secret. The result is always trimmed; an empty secret is an error.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	origin := ""

	if env := strings.TrimSpace(src.Env); env != "" {
		if value, ok := os.LookupEnv(env); ok {
			src.Value = value
			origin = fmt.Sprintf("environment variable %s", env)
		}
	}

	if file := strings.TrimSpace(src.File); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
		origin = fmt.Sprintf("file %q", file)
	}

	secret := strings.TrimSpace(src.Value)
	if secret == "" {
		if origin != "" {
			return "", fmt.Errorf("%s from %s is empty", name, origin)
		}
		return "", fmt.Errorf("%s is not configured", name)
	}

	return secret, nil
}
