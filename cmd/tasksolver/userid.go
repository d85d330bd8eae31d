package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const userIDFile = "user_id"

// loadUserID returns the installation's opaque user id from dir, creating
// one on first use.
func loadUserID(dir string) (string, error) {
	path := filepath.Join(dir, userIDFile)

	data, err := os.ReadFile(path) //nolint:gosec // path is under the user config dir
	switch {
	case err == nil:
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read user id: %w", err)
	}

	id := "user_" + uuid.NewString()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write user id: %w", err)
	}
	return id, nil
}
