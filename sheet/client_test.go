package sheet_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/amonks/sheettodo/sheet"
	"github.com/amonks/sheettodo/sheet/sheettest"
	"github.com/google/go-cmp/cmp"
)

var testColumns = []sheet.Column{
	{Title: "Id", Type: sheet.ColumnTextNumber, SystemColumnType: sheet.SystemAutoNumber},
	{Title: "TaskName", Type: sheet.ColumnTextNumber, Primary: true},
	{Title: "DueDate", Type: sheet.ColumnDate},
	{Title: "Notes", Type: sheet.ColumnTextNumber},
}

func newDatabase(t *testing.T, server *sheettest.Server) *sheet.Database {
	t.Helper()
	client := sheet.NewClient(sheet.Options{BaseURL: server.URL(), Token: sheettest.Token})
	return sheet.NewDatabase(client)
}

func TestDatabase_ListTables(t *testing.T) {
	server := sheettest.NewTestServer(t)
	server.AddSheet("Work", testColumns)
	server.AddSheet("Home", testColumns)

	names, err := newDatabase(t, server).ListTables(context.Background())
	if err != nil {
		t.Fatalf("ListTables error: %v", err)
	}
	if diff := cmp.Diff([]string{"Work", "Home"}, names); diff != "" {
		t.Errorf("ListTables mismatch (-want +got):\n%s", diff)
	}
}

func TestDatabase_FindTable(t *testing.T) {
	server := sheettest.NewTestServer(t)
	id := server.AddSheet("Work", testColumns)
	server.AddRow(id, map[string]any{"TaskName": "first", "DueDate": "2023-12-12"})

	table, err := newDatabase(t, server).FindTable(context.Background(), "Work")
	if err != nil {
		t.Fatalf("FindTable error: %v", err)
	}
	if table.ID() != id || table.Name() != "Work" || table.RowCount() != 1 {
		t.Errorf("table = %d %q %d rows", table.ID(), table.Name(), table.RowCount())
	}

	records := table.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	task, _ := records[0].Cell("TaskName")
	if task.Text() != "first" {
		t.Errorf("TaskName = %q, want first", task.Text())
	}
	due, _ := records[0].Cell("DueDate")
	if due.ValueString() != "2023-12-12" {
		t.Errorf("DueDate value = %q, want 2023-12-12", due.ValueString())
	}
	autoID, _ := records[0].Cell("Id")
	if autoID.Text() != "1" {
		t.Errorf("Id = %q, want 1", autoID.Text())
	}
}

func TestDatabase_FindTableMissing(t *testing.T) {
	server := sheettest.NewTestServer(t)
	server.AddSheet("Work", testColumns)

	_, err := newDatabase(t, server).FindTable(context.Background(), "Play")
	if !errors.Is(err, sheet.ErrTableNotFound) {
		t.Errorf("FindTable error = %v, want ErrTableNotFound", err)
	}
}

func TestDatabase_EnsureTable(t *testing.T) {
	server := sheettest.NewTestServer(t)
	db := newDatabase(t, server)
	ctx := context.Background()

	if _, _, err := db.EnsureTable(ctx, "New", 0, testColumns); !errors.Is(err, sheet.ErrTableNotFound) {
		t.Fatalf("EnsureTable without folder error = %v, want ErrTableNotFound", err)
	}

	table, created, err := db.EnsureTable(ctx, "New", 555, testColumns)
	if err != nil {
		t.Fatalf("EnsureTable error: %v", err)
	}
	if !created {
		t.Error("expected the sheet to be created")
	}
	if len(table.Columns()) != len(testColumns) {
		t.Errorf("created sheet has %d columns, want %d", len(table.Columns()), len(testColumns))
	}

	_, created, err = db.EnsureTable(ctx, "New", 555, testColumns)
	if err != nil {
		t.Fatalf("second EnsureTable error: %v", err)
	}
	if created {
		t.Error("second EnsureTable should find the existing sheet")
	}

	var creates int
	for _, r := range server.Writes() {
		if r.Method == http.MethodPost && r.Path == "/folders/555/sheets" {
			creates++
		}
	}
	if creates != 1 {
		t.Errorf("expected 1 create request, got %d", creates)
	}
}

func TestTable_InsertRow(t *testing.T) {
	server := sheettest.NewTestServer(t)
	id := server.AddSheet("Work", testColumns)
	ctx := context.Background()

	table, err := newDatabase(t, server).FindTable(ctx, "Work")
	if err != nil {
		t.Fatalf("FindTable error: %v", err)
	}
	server.ResetRequests()

	record, err := table.InsertRow(ctx, map[string]any{"TaskName": "write tests", "DueDate": "2023-12-12"})
	if err != nil {
		t.Fatalf("InsertRow error: %v", err)
	}
	if record.RowID == 0 {
		t.Error("expected the inserted row to have an ID")
	}
	if cell, _ := record.Cell("Id"); cell.Text() != "1" {
		t.Errorf("inserted Id = %q, want 1", cell.Text())
	}

	writes := server.Writes()
	if len(writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(writes))
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(writes[0].Body), &rows); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if len(rows) != 1 || rows[0]["toBottom"] != true {
		t.Errorf("expected one toBottom row, got %s", writes[0].Body)
	}
	if !strings.Contains(writes[0].Body, `"objectValue":{"objectType":"DATE","value":"2023-12-12"}`) {
		t.Errorf("date should be written as an objectValue, got %s", writes[0].Body)
	}

	stored := server.Rows(id)
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored row, got %d", len(stored))
	}
}

func TestTable_InsertRowRejectsBadColumns(t *testing.T) {
	server := sheettest.NewTestServer(t)
	server.AddSheet("Work", testColumns)
	ctx := context.Background()

	table, err := newDatabase(t, server).FindTable(ctx, "Work")
	if err != nil {
		t.Fatalf("FindTable error: %v", err)
	}
	server.ResetRequests()

	if _, err := table.InsertRow(ctx, map[string]any{"Bogus": "x"}); !errors.Is(err, sheet.ErrUnknownColumn) {
		t.Errorf("InsertRow error = %v, want ErrUnknownColumn", err)
	}
	if _, err := table.InsertRow(ctx, map[string]any{"Id": "7"}); !errors.Is(err, sheet.ErrReadOnlyColumn) {
		t.Errorf("InsertRow error = %v, want ErrReadOnlyColumn", err)
	}
	if len(server.Writes()) != 0 {
		t.Errorf("rejected inserts should not reach the server")
	}
}

func TestTable_UpdateFieldAndClear(t *testing.T) {
	server := sheettest.NewTestServer(t)
	id := server.AddSheet("Work", testColumns)
	rowID := server.AddRow(id, map[string]any{"TaskName": "first", "Notes": "old"})
	ctx := context.Background()
	db := newDatabase(t, server)

	table, err := db.FindTable(ctx, "Work")
	if err != nil {
		t.Fatalf("FindTable error: %v", err)
	}
	due := time.Date(2024, time.May, 18, 0, 0, 0, 0, time.UTC)
	if err := table.UpdateField(ctx, rowID, "DueDate", &due); err != nil {
		t.Fatalf("UpdateField(DueDate) error: %v", err)
	}
	if err := table.UpdateField(ctx, rowID, "Notes", nil); err != nil {
		t.Fatalf("UpdateField(Notes) error: %v", err)
	}

	table, err = db.FindTable(ctx, "Work")
	if err != nil {
		t.Fatalf("FindTable error: %v", err)
	}
	record := table.Records()[0]
	if cell, _ := record.Cell("DueDate"); cell.ValueString() != "2024-05-18" {
		t.Errorf("DueDate = %q, want 2024-05-18", cell.ValueString())
	}
	if _, ok := record.Cell("Notes"); ok {
		t.Error("Notes should be cleared")
	}
}

func TestTable_UpdateFieldMissingRow(t *testing.T) {
	server := sheettest.NewTestServer(t)
	server.AddSheet("Work", testColumns)
	ctx := context.Background()

	table, err := newDatabase(t, server).FindTable(ctx, "Work")
	if err != nil {
		t.Fatalf("FindTable error: %v", err)
	}
	err = table.UpdateField(ctx, 424242, "TaskName", "x")
	if !sheet.IsNotFound(err) {
		t.Errorf("UpdateField error = %v, want not found", err)
	}
	if !strings.Contains(err.Error(), "update row 424242") {
		t.Errorf("error should name the row, got %v", err)
	}
}

func TestTable_DeleteRows(t *testing.T) {
	server := sheettest.NewTestServer(t)
	id := server.AddSheet("Work", testColumns)
	first := server.AddRow(id, map[string]any{"TaskName": "first"})
	second := server.AddRow(id, map[string]any{"TaskName": "second"})
	ctx := context.Background()

	table, err := newDatabase(t, server).FindTable(ctx, "Work")
	if err != nil {
		t.Fatalf("FindTable error: %v", err)
	}
	if err := table.DeleteRows(ctx, []int64{first}); err != nil {
		t.Fatalf("DeleteRows error: %v", err)
	}

	rows := server.Rows(id)
	if len(rows) != 1 || rows[0].ID != second {
		t.Errorf("expected only row %d to remain, got %+v", second, rows)
	}

	server.ResetRequests()
	if err := table.DeleteRows(ctx, nil); err != nil {
		t.Fatalf("DeleteRows(nil) error: %v", err)
	}
	if len(server.Requests()) != 0 {
		t.Error("empty delete should not contact the server")
	}
}

func TestClient_APIErrors(t *testing.T) {
	server := sheettest.NewTestServer(t)
	ctx := context.Background()

	bad := sheet.NewClient(sheet.Options{BaseURL: server.URL(), Token: "wrong"})
	_, err := bad.ListSheets(ctx)
	var apiErr *sheet.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ListSheets error = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.ErrorCode != 1002 {
		t.Errorf("APIError = %+v, want 401/1002", apiErr)
	}

	server.FailNext("GET /sheets")
	good := sheet.NewClient(sheet.Options{BaseURL: server.URL(), Token: sheettest.Token})
	if _, err := good.ListSheets(ctx); !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Errorf("ListSheets error = %v, want 500 APIError", err)
	}
	if _, err := good.ListSheets(ctx); err != nil {
		t.Errorf("failure should only apply once, got %v", err)
	}
}

func TestClient_MissingToken(t *testing.T) {
	server := sheettest.NewTestServer(t)
	client := sheet.NewClient(sheet.Options{BaseURL: server.URL()})

	if _, err := client.ListSheets(context.Background()); !errors.Is(err, sheet.ErrMissingToken) {
		t.Errorf("ListSheets error = %v, want ErrMissingToken", err)
	}
	if len(server.Requests()) != 0 {
		t.Error("missing token should not contact the server")
	}
}

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		err  sheet.APIError
		want string
	}{
		{sheet.APIError{Status: 404}, "smartsheet: 404 Not Found"},
		{sheet.APIError{Status: 404, ErrorCode: 1006, Message: "Not Found"}, "smartsheet: Not Found (status 404, code 1006)"},
		{sheet.APIError{Status: 500, Message: "boom"}, "smartsheet: boom (status 500)"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}
