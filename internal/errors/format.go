package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// detailWidth is where Format wraps the detail paragraph.
const detailWidth = 70

type style string

const (
	styleReset  style = "\033[0m"
	styleRed    style = "\033[31m"
	styleCyan   style = "\033[36m"
	styleWhite  style = "\033[37m"
	styleGray   style = "\033[90m"
	styleRedB   style = "\033[1;31m"
	styleWhiteB style = "\033[1;37m"
)

var colorsOff atomic.Bool

// DisableColors turns ANSI styling off for every formatter in the process.
func DisableColors() { colorsOff.Store(true) }

// EnableColors turns ANSI styling back on.
func EnableColors() { colorsOff.Store(false) }

func paint(s style, text string) string {
	if colorsOff.Load() {
		return text
	}
	return string(s) + text + string(styleReset)
}

func red(text string) string { return paint(styleRed, text) }

// Format renders the error for a terminal: the code and message, the
// offending scenario or config lines with a caret under the column, then
// the detail, cause, hint and example.
func (e *SortableError) Format() string {
	var b strings.Builder
	b.WriteString("\n")
	if e.Code != "" {
		fmt.Fprintf(&b, "%s %s %s\n\n", paint(styleRedB, "ERROR"), paint(styleWhiteB, e.Code+":"), paint(styleWhite, e.Message))
	} else {
		fmt.Fprintf(&b, "%s %s\n\n", paint(styleRedB, "ERROR:"), paint(styleWhite, e.Message))
	}

	if e.Location != nil {
		fmt.Fprintf(&b, "  %s\n\n", paint(styleCyan, e.Location.String()))
		e.writeExcerpt(&b)
	}

	if lines := wrapText(e.Detail, detailWidth); len(lines) > 0 {
		for _, line := range lines {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(styleGray, "Cause: "), e.Wrapped)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "  %s%s\n\n", paint(styleCyan, "Hint: "), e.Suggestion)
	}
	if e.Example != "" {
		fmt.Fprintf(&b, "  %s\n", paint(styleCyan, "Example:"))
		for _, line := range strings.Split(e.Example, "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// writeExcerpt prints the context lines centred on the error line.
func (e *SortableError) writeExcerpt(b *strings.Builder) {
	if len(e.Context) == 0 {
		return
	}
	gutter := paint(styleGray, " │ ")
	first := e.Location.Line - len(e.Context)/2
	for i, text := range e.Context {
		n := first + i
		if n != e.Location.Line {
			fmt.Fprintf(b, "    %4d%s%s\n", n, gutter, text)
			continue
		}
		fmt.Fprintf(b, "  %s%4d%s%s\n", red("→ "), n, gutter, text)
		if col := e.Location.Column; col > 0 {
			fmt.Fprintf(b, "       %s%s%s\n", paint(styleGray, "│ "), strings.Repeat(" ", col-1), red("^"))
		}
	}
	b.WriteString("\n")
}

// FormatCompact returns "file:line:col: CODE: message", dropping the parts
// that are not set.
func (e *SortableError) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Location != nil {
		parts = append(parts, e.Location.String())
	}
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	return strings.Join(append(parts, e.Message), ": ")
}

type jsonLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

type jsonError struct {
	Code       string        `json:"code,omitempty"`
	Category   Category      `json:"category"`
	Message    string        `json:"message"`
	Detail     string        `json:"detail,omitempty"`
	Location   *jsonLocation `json:"location,omitempty"`
	Suggestion string        `json:"suggestion,omitempty"`
	Cause      string        `json:"cause,omitempty"`
}

// FormatJSON returns the error as a single-line JSON object.
func (e *SortableError) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Suggestion: e.Suggestion,
	}
	if e.Location != nil {
		out.Location = &jsonLocation{File: e.Location.File, Line: e.Location.Line, Column: e.Location.Column}
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes at word
// boundaries. A single word longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	lines := []string{words[0]}
	for _, w := range words[1:] {
		last := &lines[len(lines)-1]
		if len(*last)+1+len(w) > width {
			lines = append(lines, w)
			continue
		}
		*last += " " + w
	}
	return lines
}

// Fprint writes err to w: the full Format output for a SortableError,
// a one-line ERROR otherwise.
func Fprint(w io.Writer, err error) {
	var se *SortableError
	if stderrors.As(err, &se) {
		fmt.Fprint(w, se.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", paint(styleRedB, "ERROR:"), err)
}

// PrintError writes err to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
