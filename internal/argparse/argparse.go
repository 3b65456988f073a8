// Package argparse decodes shell arguments of the form
// key:value key2:"quoted value" key3:'single quoted'.
package argparse

import "strings"

// Parse decodes line into a key/value mapping.
//
// Unquoted values end at the next space. Quoted values run verbatim to the
// matching quote, or to the end of the line when the quote is never closed.
// Later duplicates overwrite earlier ones. Keys are not validated.
func Parse(line string) map[string]string {
	args := make(map[string]string)

	rest := line
	for rest != "" {
		sep := strings.IndexByte(rest, ':')
		if sep < 0 {
			break
		}

		key := strings.TrimSpace(rest[:sep])
		rest = rest[sep+1:]
		if rest == "" {
			break
		}

		var value string
		value, rest = consumeValue(rest)
		if key == "" {
			continue
		}
		args[key] = value
	}

	return args
}

// consumeValue splits input into the leading value and whatever follows it.
func consumeValue(input string) (string, string) {
	if input[0] == '"' || input[0] == '\'' {
		quote := input[0]
		body := input[1:]
		end := strings.IndexByte(body, quote)
		if end < 0 {
			return body, ""
		}
		return body[:end], body[end+1:]
	}

	end := strings.IndexByte(input, ' ')
	if end < 0 {
		return input, ""
	}
	return input[:end], input[end+1:]
}
