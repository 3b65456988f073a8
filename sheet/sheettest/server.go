// Package sheettest provides an in-memory Smartsheet API for tests.
package sheettest

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/amonks/sheettodo/sheet"
)

// Token is the access token NewTestServer accepts.
const Token = "test-token"

// Request records one API call the server handled.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// IsWrite reports whether the request mutates state.
func (r Request) IsWrite() bool {
	return r.Method != http.MethodGet
}

type sheetState struct {
	sheet      sheet.Sheet
	nextAuto   int64
	nextRowNum int
}

// Server is a fake Smartsheet API backed by memory.
type Server struct {
	mu       sync.Mutex
	token    string
	nextID   int64
	sheets   []*sheetState
	requests []Request
	failures map[string][]int
	http     *httptest.Server
}

// New creates a server that accepts token. Call Start to listen.
func New(token string) *Server {
	return &Server{token: token, nextID: 1000, failures: make(map[string][]int)}
}

// NewTestServer starts a server that is closed when the test ends.
func NewTestServer(t testing.TB) *Server {
	t.Helper()
	s := New(Token)
	s.Start()
	t.Cleanup(s.Close)
	return s
}

// Start begins serving and returns the base URL.
func (s *Server) Start() string {
	s.http = httptest.NewServer(s.Handler())
	return s.http.URL
}

// URL returns the base URL of a started server.
func (s *Server) URL() string {
	if s.http == nil {
		return ""
	}
	return s.http.URL
}

// Close stops the server.
func (s *Server) Close() {
	if s.http != nil {
		s.http.Close()
	}
}

// FailNext makes the next request matching "METHOD /path/prefix" return a
// 500 error.
func (s *Server) FailNext(methodAndPrefix string) {
	s.FailNextWith(methodAndPrefix, http.StatusInternalServerError)
}

// FailNextWith is FailNext with a chosen status. A 404 looks like a row or
// sheet that was removed by someone else.
func (s *Server) FailNextWith(methodAndPrefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[methodAndPrefix] = append(s.failures[methodAndPrefix], status)
}

// ResetFailures drops failures that no request has consumed.
func (s *Server) ResetFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

// AddSheet creates a sheet with the given columns and returns its ID.
func (s *Server) AddSheet(name string, columns []sheet.Column) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addSheetLocked(name, columns).sheet.ID
}

// AddRow seeds a row using column titles and returns the row ID.
// String values for DATE columns should use YYYY-MM-DD; anything else is
// stored as written, like a cell typed by hand.
func (s *Server) AddRow(sheetID int64, values map[string]any) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.sheetLocked(sheetID)
	if state == nil {
		panic(fmt.Sprintf("sheettest: no sheet %d", sheetID))
	}
	row := sheet.Row{}
	for title, value := range values {
		col, ok := columnByTitle(state.sheet.Columns, title)
		if !ok {
			panic(fmt.Sprintf("sheettest: no column %q", title))
		}
		row.Cells = append(row.Cells, sheet.Cell{ColumnID: col.ID, Value: value})
	}
	return s.appendRowLocked(state, row)
}

// Rows returns a copy of a sheet's rows.
func (s *Server) Rows(sheetID int64) []sheet.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.sheetLocked(sheetID)
	if state == nil {
		return nil
	}
	return append([]sheet.Row(nil), state.sheet.Rows...)
}

// SheetID returns the ID of the sheet named name, or zero.
func (s *Server) SheetID(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, state := range s.sheets {
		if state.sheet.Name == name {
			return state.sheet.ID
		}
	}
	return 0
}

// Requests returns every request handled so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Writes returns the mutating requests handled so far.
func (s *Server) Writes() []Request {
	var writes []Request
	for _, r := range s.Requests() {
		if r.IsWrite() {
			writes = append(writes, r)
		}
	}
	return writes
}

// ResetRequests forgets recorded requests.
func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

// Handler returns the HTTP handler implementing the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /sheets", s.handleListSheets)
	mux.HandleFunc("GET /sheets/{id}", s.handleGetSheet)
	mux.HandleFunc("POST /folders/{id}/sheets", s.handleCreateSheet)
	mux.HandleFunc("POST /sheets/{id}/rows", s.handleAddRows)
	mux.HandleFunc("PUT /sheets/{id}/rows", s.handleUpdateRows)
	mux.HandleFunc("DELETE /sheets/{id}/rows", s.handleDeleteRows)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
		})
		failStatus := s.consumeFailureLocked(r.Method, r.URL.Path)
		s.mu.Unlock()

		if r.Header.Get("Authorization") != "Bearer "+s.token {
			writeError(w, http.StatusUnauthorized, 1002, "Your Access Token is invalid.")
			return
		}
		switch failStatus {
		case 0:
		case http.StatusNotFound:
			writeError(w, http.StatusNotFound, 1006, "Not Found")
			return
		default:
			writeError(w, failStatus, 4000, "An unexpected error has occurred.")
			return
		}
		mux.ServeHTTP(w, r)
	})
}

// consumeFailureLocked returns the queued status for the request, or 0.
func (s *Server) consumeFailureLocked(method, path string) int {
	for key, statuses := range s.failures {
		if len(statuses) == 0 {
			continue
		}
		wantMethod, prefix, _ := strings.Cut(key, " ")
		if wantMethod == method && strings.HasPrefix(path, prefix) {
			s.failures[key] = statuses[1:]
			return statuses[0]
		}
	}
	return 0
}

func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := make([]sheet.SheetSummary, 0, len(s.sheets))
	for _, state := range s.sheets {
		data = append(data, sheet.SheetSummary{ID: state.sheet.ID, Name: state.sheet.Name})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"pageNumber": 1,
		"totalCount": len(data),
		"data":       data,
	})
}

func (s *Server) handleGetSheet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, state.sheet)
}

func (s *Server) handleCreateSheet(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name    string         `json:"name"`
		Columns []sheet.Column `json:"columns"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, 1008, "Unable to parse request.")
		return
	}
	if request.Name == "" || len(request.Columns) == 0 {
		writeError(w, http.StatusBadRequest, 1012, "Required object attribute(s) are missing from your request.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.addSheetLocked(request.Name, request.Columns)
	writeResult(w, state.sheet)
}

func (s *Server) handleAddRows(w http.ResponseWriter, r *http.Request) {
	var rows []sheet.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, 1008, "Unable to parse request.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	for _, row := range rows {
		for _, cell := range row.Cells {
			col, ok := columnByID(state.sheet.Columns, cell.ColumnID)
			if !ok {
				writeError(w, http.StatusBadRequest, 1036, "The columnId is invalid.")
				return
			}
			if col.SystemColumnType != "" {
				writeError(w, http.StatusBadRequest, 1042, "The cell value in column is not allowed.")
				return
			}
		}
	}
	added := make([]sheet.Row, 0, len(rows))
	for _, row := range rows {
		id := s.appendRowLocked(state, row)
		added = append(added, *rowByID(state, id))
	}
	writeResult(w, added)
}

func (s *Server) handleUpdateRows(w http.ResponseWriter, r *http.Request) {
	var rows []sheet.Row
	if err := json.NewDecoder(r.Body).Decode(&rows); err != nil {
		writeError(w, http.StatusBadRequest, 1008, "Unable to parse request.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	updated := make([]sheet.Row, 0, len(rows))
	for _, patch := range rows {
		existing := rowByID(state, patch.ID)
		if existing == nil {
			writeError(w, http.StatusNotFound, 1006, "Not Found")
			return
		}
		for _, cell := range patch.Cells {
			col, ok := columnByID(state.sheet.Columns, cell.ColumnID)
			if !ok {
				writeError(w, http.StatusBadRequest, 1036, "The columnId is invalid.")
				return
			}
			setCell(existing, col, cell)
		}
		updated = append(updated, *existing)
	}
	writeResult(w, updated)
}

func (s *Server) handleDeleteRows(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.lookupLocked(w, r)
	if !ok {
		return
	}
	var ids []int64
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, 1018, "The value for ids is invalid.")
			return
		}
		if rowByID(state, id) == nil {
			writeError(w, http.StatusNotFound, 1006, "Not Found")
			return
		}
		ids = append(ids, id)
	}
	remove := make(map[int64]bool, len(ids))
	for _, id := range ids {
		remove[id] = true
	}
	kept := state.sheet.Rows[:0]
	for _, row := range state.sheet.Rows {
		if !remove[row.ID] {
			kept = append(kept, row)
		}
	}
	state.sheet.Rows = kept
	state.sheet.TotalRowCount = len(kept)
	writeResult(w, ids)
}

func (s *Server) lookupLocked(w http.ResponseWriter, r *http.Request) (*sheetState, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, 1006, "Not Found")
		return nil, false
	}
	state := s.sheetLocked(id)
	if state == nil {
		writeError(w, http.StatusNotFound, 1006, "Not Found")
		return nil, false
	}
	return state, true
}

func (s *Server) sheetLocked(id int64) *sheetState {
	for _, state := range s.sheets {
		if state.sheet.ID == id {
			return state
		}
	}
	return nil
}

func (s *Server) addSheetLocked(name string, columns []sheet.Column) *sheetState {
	cols := make([]sheet.Column, len(columns))
	for i, col := range columns {
		col.ID = s.newIDLocked()
		col.Index = i
		cols[i] = col
	}
	state := &sheetState{
		sheet:    sheet.Sheet{ID: s.newIDLocked(), Name: name, Columns: cols, Rows: []sheet.Row{}},
		nextAuto: 1,
	}
	s.sheets = append(s.sheets, state)
	return state
}

func (s *Server) appendRowLocked(state *sheetState, input sheet.Row) int64 {
	state.nextRowNum++
	row := sheet.Row{ID: s.newIDLocked(), RowNumber: state.nextRowNum}
	for _, col := range state.sheet.Columns {
		if col.SystemColumnType == sheet.SystemAutoNumber {
			n := strconv.FormatInt(state.nextAuto, 10)
			state.nextAuto++
			if col.AutoNumberFormat != nil {
				n = col.AutoNumberFormat.Prefix + n + col.AutoNumberFormat.Suffix
			}
			row.Cells = append(row.Cells, sheet.Cell{ColumnID: col.ID, Value: n, DisplayValue: n})
		}
	}
	for _, cell := range input.Cells {
		col, ok := columnByID(state.sheet.Columns, cell.ColumnID)
		if !ok {
			continue
		}
		setCell(&row, col, cell)
	}
	state.sheet.Rows = append(state.sheet.Rows, row)
	state.sheet.TotalRowCount = len(state.sheet.Rows)
	return row.ID
}

func (s *Server) newIDLocked() int64 {
	s.nextID++
	return s.nextID
}

// setCell stores a written cell the way the API echoes it back: DATE cells
// keep the ISO value and get a locale-formatted display value.
func setCell(row *sheet.Row, col sheet.Column, input sheet.Cell) {
	value := cellInputValue(input)
	kept := row.Cells[:0]
	for _, cell := range row.Cells {
		if cell.ColumnID != col.ID {
			kept = append(kept, cell)
		}
	}
	row.Cells = kept
	if value == "" {
		return
	}

	stored := sheet.Cell{ColumnID: col.ID, Value: value, DisplayValue: value}
	if col.Type == sheet.ColumnDate {
		if parsed, err := time.Parse("2006-01-02", value); err == nil {
			stored.DisplayValue = parsed.Format("01/02/06")
		}
	}
	row.Cells = append(row.Cells, stored)
	slices.SortFunc(row.Cells, func(a, b sheet.Cell) int { return cmp.Compare(a.ColumnID, b.ColumnID) })
}

func cellInputValue(cell sheet.Cell) string {
	if obj, ok := cell.ObjectValue.(map[string]any); ok {
		if v, ok := obj["value"].(string); ok {
			return v
		}
	}
	if obj, ok := cell.ObjectValue.(sheet.ObjectValue); ok {
		return obj.Value
	}
	return cell.ValueString()
}

func rowByID(state *sheetState, id int64) *sheet.Row {
	for i := range state.sheet.Rows {
		if state.sheet.Rows[i].ID == id {
			return &state.sheet.Rows[i]
		}
	}
	return nil
}

func columnByID(columns []sheet.Column, id int64) (sheet.Column, bool) {
	for _, col := range columns {
		if col.ID == id {
			return col, true
		}
	}
	return sheet.Column{}, false
}

func columnByTitle(columns []sheet.Column, title string) (sheet.Column, bool) {
	for _, col := range columns {
		if col.Title == title {
			return col, true
		}
	}
	return sheet.Column{}, false
}

func writeResult(w http.ResponseWriter, result any) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "SUCCESS",
		"resultCode": 0,
		"result":     result,
	})
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	writeJSON(w, status, map[string]any{
		"errorCode": code,
		"message":   message,
		"refId":     "sheettest",
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
