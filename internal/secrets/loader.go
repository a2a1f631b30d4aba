package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source is a single place a credential can come from. File wins over Value so
// a file-based secret in the environment always overrides an inline one from
// the config.
type Source struct {
	// Name labels the credential in error messages, e.g. "bright data token".
	Name string
	// Value holds the credential inline, as read from the config file.
	Value string
	// File is a path to a file holding the credential.
	File string
}

// Load resolves a credential from its source and trims surrounding whitespace.
// A blank result is an error: scoring jobs with a missing key would only fail
// later with a confusing provider response.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "credential"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("loading %s: read %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	value := strings.TrimSpace(src.Value)
	if value == "" {
		if file != "" {
			return "", fmt.Errorf("loading %s: file %q holds no value", name, file)
		}
		return "", fmt.Errorf("no %s provided", name)
	}

	return value, nil
}
