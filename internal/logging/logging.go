// Package logging builds the zap logger used by sheettodo.
//
// Logs go to a JSON file so the interactive terminal stays clean. Verbose
// mode also writes human-readable debug output to stderr.
package logging

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amonks/sheettodo/internal/paths"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures New.
type Options struct {
	// Level is a zap level name. Empty means "info".
	Level string

	// File is the log path. Empty means the default path in the state
	// directory.
	File string

	// Verbose also writes debug output to Stderr.
	Verbose bool

	// Stderr receives verbose output. Defaults to os.Stderr.
	Stderr io.Writer
}

// Logger is a zap logger plus the file it writes to.
type Logger struct {
	*zap.Logger
	file *os.File
}

// New opens the log file and returns a logger writing to it.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	path, err := paths.ResolveWithDefault(opts.File, paths.DefaultLogPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.Lock(file), level),
	}

	if opts.Verbose {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		consoleConfig := zap.NewDevelopmentEncoderConfig()
		consoleConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleConfig),
			zapcore.AddSync(stderr),
			zapcore.DebugLevel,
		))
	}

	return &Logger{Logger: zap.New(zapcore.NewTee(cores...)), file: file}, nil
}

// Close flushes the logger and closes the log file.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	_ = l.Logger.Sync()
	return l.file.Close()
}

// ParseLevel parses a zap level name. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// NewSessionID returns a new ULID identifying one run of the program.
func NewSessionID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// WithSession tags every entry of logger with the session ID.
func WithSession(logger *zap.Logger, sessionID string) *zap.Logger {
	return logger.With(zap.String("session", sessionID))
}
