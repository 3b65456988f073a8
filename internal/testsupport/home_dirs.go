package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/amonks/sheettodo/internal/paths"
)

// HomeDirs is a throwaway HOME laid out the way sheettodo expects.
type HomeDirs struct {
	Home   string
	Config string
	State  string
}

// ConfigFile is where sheettodo looks for its config by default.
func (d HomeDirs) ConfigFile() string {
	return filepath.Join(d.Config, paths.ConfigFileName)
}

// LogFile is where sheettodo logs by default.
func (d HomeDirs) LogFile() string {
	return filepath.Join(d.State, paths.LogFileName)
}

// EnsureHomeDirs creates the config and state directories under home.
func EnsureHomeDirs(home string) (HomeDirs, error) {
	dirs := HomeDirs{Home: home, Config: paths.ConfigDir(home), State: paths.StateDir(home)}
	for _, dir := range []string{dirs.Config, dirs.State} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return HomeDirs{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return dirs, nil
}

// SetupTestHome points HOME at a fresh temp directory for the rest of the test.
func SetupTestHome(t testing.TB) HomeDirs {
	t.Helper()

	dirs, err := EnsureHomeDirs(t.TempDir())
	if err != nil {
		t.Fatalf("setup home dir: %v", err)
	}
	t.Setenv("HOME", dirs.Home)
	return dirs
}
