package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \n\t ",
			want:  "",
		},
		{
			name:  "collapses spaces",
			input: "one   two    three",
			want:  "one two three",
		},
		{
			name:  "collapses newlines",
			input: "one\n\n two\tthree",
			want:  "one two three",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeWhitespace(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "crlf", input: "a\r\nb", want: "a\nb"},
		{name: "cr", input: "a\rb", want: "a\nb"},
		{name: "lf untouched", input: "a\nb", want: "a\nb"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeNewlines(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExpandEscapedNewlines(t *testing.T) {
	got := ExpandEscapedNewlines(`first\nsecond\n`)
	if got != "first\nsecond\n" {
		t.Fatalf("expected expanded newlines, got %q", got)
	}
}

func TestEscapeNewlines(t *testing.T) {
	got := EscapeNewlines("first\r\nsecond\nthird")
	if got != `first\nsecond\nthird` {
		t.Fatalf("expected escaped newlines, got %q", got)
	}
	if back := ExpandEscapedNewlines(got); back != "first\nsecond\nthird" {
		t.Fatalf("expected round trip, got %q", back)
	}
}

func TestTrimTrailingNewlines(t *testing.T) {
	if got := TrimTrailingNewlines("text\r\n\n"); got != "text" {
		t.Fatalf("expected trimmed text, got %q", got)
	}
}
