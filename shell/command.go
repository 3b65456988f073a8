package shell

import (
	"strings"
	"unicode"
)

// Command is one of the shell's commands.
type Command int

const (
	CommandUnknown Command = iota
	CommandList
	CommandListAll
	CommandWeek
	CommandSee
	CommandCreate
	CommandSet
	CommandDelete
	CommandFinish
	CommandUnfinish
	CommandEdit
	CommandTables
	CommandHistory
	CommandClear
	CommandHelp
	CommandExit
)

var commandNames = map[string]Command{
	"ls":       CommandList,
	"list":     CommandList,
	"la":       CommandListAll,
	"week":     CommandWeek,
	"see":      CommandSee,
	"create":   CommandCreate,
	"set":      CommandSet,
	"rm":       CommandDelete,
	"delete":   CommandDelete,
	"remove":   CommandDelete,
	"finish":   CommandFinish,
	"unfinish": CommandUnfinish,
	"edit":     CommandEdit,
	"tables":   CommandTables,
	"history":  CommandHistory,
	"clear":    CommandClear,
	"reset":    CommandClear,
	"help":     CommandHelp,
	"exit":     CommandExit,
	"quit":     CommandExit,
}

// Input is one parsed line of shell input.
type Input struct {
	Command Command

	// Name is the command word as typed.
	Name string

	// Rest is the raw text after the command word, trimmed.
	Rest string

	// Args is Rest split on whitespace.
	Args []string
}

// ParseInput splits a line into its command and arguments.
func ParseInput(line string) Input {
	line = strings.TrimSpace(line)
	name, rest := splitWord(line)
	in := Input{
		Command: commandNames[strings.ToLower(name)],
		Name:    name,
		Rest:    rest,
		Args:    strings.Fields(rest),
	}
	if in.Command == CommandList && len(in.Args) > 0 && in.Args[0] == "-a" {
		in.Command = CommandListAll
	}
	return in
}

// splitWord returns the first whitespace-delimited word and the trimmed
// remainder.
func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}

// JoinArgs rebuilds a shell line from command-line arguments, quoting
// key:value arguments whose value contains spaces.
func JoinArgs(args []string) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok || !strings.ContainsAny(value, " \t") || strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'") {
			parts = append(parts, arg)
			continue
		}
		quote := `"`
		if strings.Contains(value, `"`) {
			quote = "'"
		}
		parts = append(parts, key+":"+quote+value+quote)
	}
	return strings.Join(parts, " ")
}
