// Package config loads sheettodo settings.
//
// Settings are layered: the TOML config file, then a .env file, then the
// process environment. Command-line flags are applied by the caller last.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/sheettodo/internal/paths"
	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvSheetName = "SHEET_NAME"
	EnvFolderID  = "SHEET_FOLDER_ID"
	EnvToken     = "SMARTSHEET_ACCESS_TOKEN"
	EnvBaseURL   = "SMARTSHEET_API_BASE"
	EnvTimeout   = "SHEETTODO_TIMEOUT"
	EnvLogLevel  = "SHEETTODO_LOG_LEVEL"
	EnvLogFile   = "SHEETTODO_LOG_FILE"
)

var (
	// ErrMissingSheetName is returned by Validate when no sheet is configured.
	ErrMissingSheetName = errors.New("no sheet name configured (set " + EnvSheetName + " or sheet.name)")

	// ErrMissingToken is returned by Validate when no access token is configured.
	ErrMissingToken = errors.New("no access token configured (set " + EnvToken + " or api.token)")
)

// Config is the merged configuration.
type Config struct {
	Sheet Sheet `toml:"sheet"`
	API   API   `toml:"api"`
	Log   Log   `toml:"log"`
}

// Sheet selects the todo sheet.
type Sheet struct {
	// Name is the sheet holding the todos.
	Name string `toml:"name"`

	// FolderID is where the sheet is created when it does not exist.
	// Zero disables creation.
	FolderID int64 `toml:"folder-id"`
}

// API configures the Smartsheet client.
type API struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base-url"`

	// Timeout is a Go duration string such as "30s".
	Timeout string `toml:"timeout"`
}

// Log configures the log file.
type Log struct {
	// Level is a zap level name. Defaults to "info".
	Level string `toml:"level"`

	// File overrides the default log path in the state directory.
	File string `toml:"file"`
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Path is the TOML config file. Empty means the default path, which may
	// be absent. An explicit path must exist.
	Path string

	// DotEnv is the .env file to read. Empty means ".env" in the working
	// directory. A missing .env file is ignored.
	DotEnv string

	// LookupEnv reads the environment. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load reads the config file, the .env file, and the environment, in that
// order of increasing precedence.
func Load(opts LoadOptions) (*Config, error) {
	cfg, err := loadFile(opts.Path)
	if err != nil {
		return nil, err
	}

	dotEnvPath := opts.DotEnv
	if dotEnvPath == "" {
		dotEnvPath = ".env"
	}
	dotEnv, err := godotenv.Read(dotEnvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", dotEnvPath, err)
	}
	if err := cfg.applyEnv(mapLookup(dotEnv)); err != nil {
		return nil, fmt.Errorf("%s: %w", dotEnvPath, err)
	}

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	explicit := path != ""
	path, err := paths.ResolveWithDefault(path, paths.DefaultConfigPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

func mapLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	setString := func(key string, dst *string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = strings.TrimSpace(value)
		}
	}
	setString(EnvSheetName, &c.Sheet.Name)
	setString(EnvToken, &c.API.Token)
	setString(EnvBaseURL, &c.API.BaseURL)
	setString(EnvTimeout, &c.API.Timeout)
	setString(EnvLogLevel, &c.Log.Level)
	setString(EnvLogFile, &c.Log.File)

	if value, ok := lookup(EnvFolderID); ok && strings.TrimSpace(value) != "" {
		id, err := ParseFolderID(value)
		if err != nil {
			return err
		}
		c.Sheet.FolderID = id
	}
	return nil
}

// ParseFolderID parses a Smartsheet folder ID.
func ParseFolderID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid folder id %q", value)
	}
	return id, nil
}

// HTTPTimeout returns the configured request timeout, or zero when unset.
func (c *Config) HTTPTimeout() (time.Duration, error) {
	if strings.TrimSpace(c.API.Timeout) == "" {
		return 0, nil
	}
	timeout, err := time.ParseDuration(strings.TrimSpace(c.API.Timeout))
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.API.Timeout, err)
	}
	return timeout, nil
}

// Validate reports settings that every backend command needs.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Sheet.Name) == "" {
		errs = append(errs, ErrMissingSheetName)
	}
	if strings.TrimSpace(c.API.Token) == "" {
		errs = append(errs, ErrMissingToken)
	}
	if _, err := c.HTTPTimeout(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
