package shell

import (
	"bufio"
	"errors"
	"io"

	"github.com/peterh/liner"
)

// LinerReader reads lines from a terminal with editing and in-memory
// history.
type LinerReader struct {
	state *liner.State
}

// NewLinerReader takes over the terminal. Call Close to restore it.
func NewLinerReader() *LinerReader {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinerReader{state: state}
}

// ReadLine prompts for a line.
func (r *LinerReader) ReadLine(prompt string) (string, error) {
	line, err := r.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	if err != nil {
		return "", err
	}
	if line != "" {
		r.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal.
func (r *LinerReader) Close() error {
	return r.state.Close()
}

// ScannerReader reads lines from a non-interactive input such as a pipe.
// It prints no prompt.
type ScannerReader struct {
	scanner *bufio.Scanner
}

// NewScannerReader returns a reader over in.
func NewScannerReader(in io.Reader) *ScannerReader {
	return &ScannerReader{scanner: bufio.NewScanner(in)}
}

// ReadLine returns the next line, or io.EOF.
func (r *ScannerReader) ReadLine(string) (string, error) {
	if r.scanner.Scan() {
		return r.scanner.Text(), nil
	}
	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}
