package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	internalstrings "github.com/amonks/sheettodo/internal/strings"
	"github.com/amonks/sheettodo/internal/validation"
	"github.com/amonks/sheettodo/todo"
)

// TodoData is the editable view of a todo.
type TodoData struct {
	ID      string
	Task    string
	DueDate string
	Status  string
	Notes   string
}

// DataFromTodo creates TodoData from an existing todo for editing.
func DataFromTodo(t todo.Todo) TodoData {
	return TodoData{
		ID:      t.ID,
		Task:    t.Task,
		DueDate: todo.FormatDate(t.DueDate),
		Status:  string(t.Status),
		Notes:   internalstrings.ExpandEscapedNewlines(t.Notes),
	}
}

var todoTemplate = template.Must(template.New("todo").Funcs(template.FuncMap{
	"statuses": statusList,
}).Parse(`# todo {{ .ID }}
task = {{ printf "%q" .Task }}
due_date = {{ printf "%q" .DueDate }} # YYYY-MM-DD
status = {{ printf "%q" .Status }} # {{ statuses }}
---
{{ .Notes }}
`))

// RenderTodoTOML renders the todo data as a TOML string for editing.
func RenderTodoTOML(data TodoData) (string, error) {
	var buf bytes.Buffer
	if err := todoTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTodo is the editor output.
type ParsedTodo struct {
	Task    string `toml:"task"`
	DueDate string `toml:"due_date"`
	Status  string `toml:"status"`
	Notes   string `toml:"-"`
}

// ParseTodoTOML parses and validates the editor output.
func ParseTodoTOML(content string) (*ParsedTodo, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTodo
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Task = strings.TrimSpace(parsed.Task)
	parsed.DueDate = strings.TrimSpace(parsed.DueDate)
	parsed.Status = strings.TrimSpace(parsed.Status)
	parsed.Notes = strings.TrimSpace(internalstrings.NormalizeNewlines(body))

	if parsed.Task == "" {
		return nil, todo.ErrEmptyTask
	}
	if parsed.DueDate != "" {
		if _, err := todo.ParseDate(parsed.DueDate); err != nil {
			return nil, err
		}
	}
	if parsed.Status != "" {
		status, err := todo.ParseStatus(parsed.Status)
		if err != nil {
			return nil, err
		}
		parsed.Status = string(status)
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

func statusList() string {
	return validation.FormatValidValues(todo.ValidStatuses())
}

// runEditor is replaced in tests.
var runEditor = Edit

// EditTodo opens the editor on t and returns the parsed result.
func EditTodo(t todo.Todo) (*ParsedTodo, error) {
	content, err := RenderTodoTOML(DataFromTodo(t))
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "sheettodo-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := runEditor(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTodoTOML(string(edited))
}

// ToUpdateOptions returns the fields that differ from existing. Unchanged
// and cleared fields are left empty, which Store.Update treats as no change.
func (p *ParsedTodo) ToUpdateOptions(existing todo.Todo) todo.UpdateOptions {
	var opts todo.UpdateOptions
	if p.Task != existing.Task {
		opts.Task = p.Task
	}
	if p.DueDate != todo.FormatDate(existing.DueDate) {
		opts.DueDate = p.DueDate
	}
	if p.Status != string(existing.Status) {
		opts.Status = p.Status
	}
	if notes := internalstrings.EscapeNewlines(p.Notes); notes != existing.Notes {
		opts.Notes = notes
	}
	return opts
}
