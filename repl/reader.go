package repl

import (
	"bufio"
	"io"
	"strings"

	"github.com/wader/readline"
)

// LineReader yields one line of user input per call, without the line ending
type LineReader interface {
	ReadLine() (string, error)
}

// bufferedReader reads lines from any stream, e.g. a pipe or a test buffer
type bufferedReader struct {
	r *bufio.Reader
}

// NewReader returns a LineReader over r
func NewReader(r io.Reader) LineReader {
	return &bufferedReader{r: bufio.NewReader(r)}
}

func (b *bufferedReader) ReadLine() (string, error) {
	line, err := b.r.ReadString('\n')
	if err == io.EOF && line != "" {
		// last line without a trailing newline
		return strings.TrimRight(line, "\r"), nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// TerminalReader reads lines from an interactive terminal with line editing
type TerminalReader struct {
	rl *readline.Instance
}

// NewTerminalReader attaches to the process terminal
func NewTerminalReader(prompt string) (*TerminalReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
	})
	if err != nil {
		return nil, err
	}
	return &TerminalReader{rl: rl}, nil
}

func (t *TerminalReader) ReadLine() (string, error) {
	return t.rl.Readline()
}

func (t *TerminalReader) Close() error {
	return t.rl.Close()
}
