package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppDir returns the prompty data directory, ~/.prompty unless PROMPTY_HOME
// points elsewhere.
func AppDir() string {
	if custom := os.Getenv(domain.EnvHome); custom != "" {
		return ExpandPath(custom)
	}
	return filepath.Join(UserHomeDir(), ".prompty")
}

// ExpandPath resolves a leading ~/ against the home directory.
func ExpandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}
