package main

import (
	"net/http"

	"github.com/amonks/sheettodo/internal/config"
	"github.com/amonks/sheettodo/internal/logging"
	"github.com/amonks/sheettodo/sheet"
	"github.com/amonks/sheettodo/shell"
	"github.com/amonks/sheettodo/todo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds what every backend command needs.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	log     *zap.Logger
	db      *sheet.Database
	session *shell.Session
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.HTTPTimeout()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Verbose: rootVerbose,
		Stderr:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	log := logging.WithSession(logger.Logger, logging.NewSessionID())
	log.Debug("starting", zap.String("command", cmd.CommandPath()), zap.String("sheet", cfg.Sheet.Name))

	clientOpts := sheet.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Logger:  log,
	}
	if timeout > 0 {
		clientOpts.HTTPClient = &http.Client{Timeout: timeout}
	}
	db := sheet.NewDatabase(sheet.NewClient(clientOpts))

	return &app{
		cfg:    cfg,
		logger: logger,
		log:    log,
		db:     db,
		session: shell.New(shell.Options{
			DB:        db,
			SheetName: cfg.Sheet.Name,
			FolderID:  cfg.Sheet.FolderID,
			Stdout:    cmd.OutOrStdout(),
			Logger:    log,
		}),
	}, nil
}

// loadConfig reads the config file, .env and environment, applies flags,
// and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{Path: rootConfigPath})
	if err != nil {
		return nil, err
	}
	if hasChangedFlags(cmd, "sheet") {
		cfg.Sheet.Name = rootSheet
	}
	if hasChangedFlags(cmd, "folder") {
		id, err := config.ParseFolderID(rootFolder)
		if err != nil {
			return nil, err
		}
		cfg.Sheet.FolderID = id
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) openStore(cmd *cobra.Command) (*todo.Store, error) {
	return todo.Open(cmd.Context(), a.db, a.cfg.Sheet.Name, todo.OpenOptions{
		Options:  todo.Options{Logger: a.log},
		FolderID: a.cfg.Sheet.FolderID,
	})
}

func (a *app) Close() error {
	return a.logger.Close()
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}
