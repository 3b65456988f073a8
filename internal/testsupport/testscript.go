package testsupport

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/amonks/sheettodo/sheet/sheettest"
	"github.com/amonks/sheettodo/todo"
	"github.com/rogpeppe/go-internal/testscript"
)

// ScriptSheet is the sheet SetupScriptEnv creates.
const ScriptSheet = "Todos"

var (
	buildOnce     sync.Once
	sheettodoPath string
	buildErr      error
)

// BuildSheettodo builds the sheettodo binary once and returns its path.
func BuildSheettodo(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "sheettodo-bin-")
		if err != nil {
			buildErr = err
			return
		}

		sheettodoPath = filepath.Join(binDir, "sheettodo")
		cmd := exec.Command("go", "build", "-o", sheettodoPath, "./cmd/sheettodo")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build sheettodo: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return sheettodoPath
}

// SetupScriptEnv starts a fake Smartsheet API holding an empty todo sheet
// and points the script's environment at it.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("SHEETTODO", BuildSheettodo(t))

	homeDir := filepath.Join(env.WorkDir, "home")
	if _, err := EnsureHomeDirs(homeDir); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	server := sheettest.New(sheettest.Token)
	url := server.Start()
	env.Defer(server.Close)
	server.AddSheet(ScriptSheet, todo.Columns())

	env.Setenv("SMARTSHEET_API_BASE", url)
	env.Setenv("SMARTSHEET_ACCESS_TOKEN", sheettest.Token)
	env.Setenv("SHEET_NAME", ScriptSheet)
	env.Setenv("NO_COLOR", "1")
	return nil
}

// CmdEnvSet stores the trimmed contents of a file in an env var.
func CmdEnvSet(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("envset does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: envset VAR FILE")
	}

	value := strings.TrimSpace(ts.ReadFile(args[1]))
	ts.Setenv(args[0], value)
}

// CmdTodoID finds a todo by task in a JSON export and stores its ID in an
// env var.
func CmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("todoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: todoid FILE TASK VAR")
	}

	var items []todo.Todo
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse todo list: %v", err)
	}

	task := args[1]
	for _, item := range items {
		if item.Task == task {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("todo with task %q not found", task)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
