// Package markdown renders todo notes for the terminal.
package markdown

import (
	"strings"
	"sync"

	internalstrings "github.com/amonks/sheettodo/internal/strings"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Notes renders a todo's notes as markdown. Literal "\n" sequences are
// line breaks. Returns "" when there is nothing to show.
func Notes(notes string, width, indent int) string {
	return string(Render(width, indent, []byte(internalstrings.ExpandEscapedNewlines(notes))))
}

// Render formats markdown text for terminal output. If the renderer fails,
// the input is returned unformatted.
func Render(width, indent int, input []byte) []byte {
	value := internalstrings.NormalizeNewlines(string(input))
	value = internalstrings.TrimTrailingNewlines(value)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	renderWidth := max(width-max(indent, 0), 1)

	rendered := value
	if formatted, ok := safeRender(markdownRenderer(renderWidth), value); ok {
		rendered = formatted
	}
	rendered = strings.Trim(internalstrings.TrimTrailingNewlines(rendered), "\n")
	if strings.TrimSpace(rendered) == "" {
		return nil
	}
	return []byte(indentBlock(rendered, indent))
}

func safeRender(r renderer, value string) (out string, ok bool) {
	if r == nil {
		return "", false
	}
	defer func() {
		if recover() != nil {
			out, ok = "", false
		}
	}()
	formatted, err := r.Render(value)
	if err != nil {
		return "", false
	}
	return formatted, true
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}

func indentBlock(value string, spaces int) string {
	if spaces <= 0 {
		return value
	}
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
