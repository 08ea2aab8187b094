// Package printer writes a message to an output stream inside a decorative box.
package printer

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/govm-net/counter/core"
	"golang.org/x/text/unicode/norm"
)

// RenderFunc turns a message into its decorated form
type RenderFunc func(text string) string

var boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder())

// tabs are drawn as this many spaces, the same as lipgloss does by default
const tabWidth = 4

// BoxRenderer draws a rounded border around text. The inner width is the
// number of characters in the message.
func BoxRenderer(text string) string {
	// measure exactly what lipgloss will draw
	text = strings.ToValidUTF8(text, string(utf8.RuneError))
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", tabWidth))

	width := utf8.RuneCountInString(norm.NFC.String(text))
	// wide runes take two cells; never let the box wrap the message
	if w := lipgloss.Width(text); w > width {
		width = w
	}
	return boxStyle.Width(width).Render(text)
}

// Printer writes rendered messages to w
type Printer struct {
	w      io.Writer
	render RenderFunc
}

// New returns a Printer writing to w. A nil render uses BoxRenderer.
func New(w io.Writer, render RenderFunc) *Printer {
	if render == nil {
		render = BoxRenderer
	}
	return &Printer{w: w, render: render}
}

// Print renders msg and writes it followed by a newline. Output is buffered
// and flushed before Print returns; any write or flush failure is returned
// as a core.IOError.
func (p *Printer) Print(msg string) error {
	out := p.render(msg)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	bw := bufio.NewWriter(p.w)
	if _, err := bw.WriteString(out); err != nil {
		return core.NewIOError("failed to write message", err)
	}
	if err := bw.Flush(); err != nil {
		return core.NewIOError("failed to flush output", err)
	}
	return nil
}
