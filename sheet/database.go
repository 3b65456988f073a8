package sheet

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Database resolves sheets by name.
type Database struct {
	client *Client
	log    *zap.Logger
}

// NewDatabase wraps a client.
func NewDatabase(client *Client) *Database {
	return &Database{client: client, log: client.log}
}

// ListTables returns the names of every visible sheet.
func (db *Database) ListTables(ctx context.Context) ([]string, error) {
	sheets, err := db.client.ListSheets(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(sheets))
	for _, s := range sheets {
		names = append(names, s.Name)
	}
	return names, nil
}

// FindTable fetches the first sheet named name.
// Returns ErrTableNotFound if no sheet matches.
func (db *Database) FindTable(ctx context.Context, name string) (*Table, error) {
	sheets, err := db.client.ListSheets(ctx)
	if err != nil {
		return nil, err
	}
	for _, summary := range sheets {
		if summary.Name != name {
			continue
		}
		s, err := db.client.GetSheet(ctx, summary.ID)
		if err != nil {
			return nil, err
		}
		return newTable(db.client, s), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
}

// EnsureTable finds the sheet named name, creating it in folderID with the
// given columns when it does not exist. A zero folderID disables creation.
// The boolean result reports whether the sheet was created.
func (db *Database) EnsureTable(ctx context.Context, name string, folderID int64, columns []Column) (*Table, bool, error) {
	table, err := db.FindTable(ctx, name)
	if err == nil {
		return table, false, nil
	}
	if !errors.Is(err, ErrTableNotFound) || folderID == 0 {
		return nil, false, err
	}

	db.log.Info("creating sheet", zap.String("name", name), zap.Int64("folder", folderID))
	created, err := db.client.CreateSheetInFolder(ctx, folderID, name, columns)
	if err != nil {
		return nil, false, err
	}
	s, err := db.client.GetSheet(ctx, created.ID)
	if err != nil {
		return nil, false, err
	}
	return newTable(db.client, s), true, nil
}
