package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// Prompter reads one line of user input per call. It returns io.EOF when
// the input is exhausted or the user aborts.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// NewPrompter returns a line editor with history when in is a terminal,
// and a plain line scanner otherwise.
func NewPrompter(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && isTerminal(f) && liner.TerminalSupported() {
		return NewLinePrompter()
	}
	return NewScannerPrompter(in, out)
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// LinePrompter reads from the terminal with line editing and history
type LinePrompter struct {
	state *liner.State
}

// NewLinePrompter takes over the terminal until Close is called
func NewLinePrompter() *LinePrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	return &LinePrompter{state: state}
}

// Prompt implements Prompter
func (p *LinePrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(line) != "" {
		p.state.AppendHistory(line)
	}
	return line, nil
}

// Close restores the terminal
func (p *LinePrompter) Close() error {
	return p.state.Close()
}

// ScannerPrompter reads lines from a pipe or file
type ScannerPrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewScannerPrompter writes prompts to out and reads lines from in
func NewScannerPrompter(in io.Reader, out io.Writer) *ScannerPrompter {
	return &ScannerPrompter{scanner: bufio.NewScanner(in), out: out}
}

// Prompt implements Prompter
func (p *ScannerPrompter) Prompt(prompt string) (string, error) {
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

// Close implements Prompter
func (p *ScannerPrompter) Close() error {
	return nil
}
