package format

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dhamidi/xmlsyntax/xml/linecol"
	"github.com/dhamidi/xmlsyntax/xml/parser"
)

// PrettyOpts configures DiagnosticPrinter.
type PrettyOpts struct {
	Color bool
	// Max limits the diagnostics printed per file; 0 means no limit.
	Max int
}

// DiagnosticPrinter writes diagnostics as
//
//	path:line:col: error ID: message
//	  source line
//	  ^~~~
//
// Print may be called from several goroutines; the output of one call is
// never interleaved with another.
type DiagnosticPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	opts  PrettyOpts
	loc   *color.Color
	err   *color.Color
	caret *color.Color
}

func NewDiagnosticPrinter(w io.Writer, opts PrettyOpts) *DiagnosticPrinter {
	p := &DiagnosticPrinter{
		w:     w,
		opts:  opts,
		loc:   color.New(color.Bold),
		err:   color.New(color.FgRed, color.Bold),
		caret: color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.loc, p.err, p.caret} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Print writes the diagnostics of one file and returns how many were
// written.
func (p *DiagnosticPrinter) Print(path, text string, diags []parser.LocatedDiagnostic) (int, error) {
	idx := linecol.NewIndex(text)
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, d := range diags {
		if p.opts.Max > 0 && n >= p.opts.Max {
			break
		}
		if err := p.print(idx, path, text, d); err != nil {
			return n, err
		}
		n++
	}
	if omitted := len(diags) - n; omitted > 0 {
		if _, err := fmt.Fprintf(p.w, "%s: %d more diagnostics not shown\n", path, omitted); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (p *DiagnosticPrinter) print(idx *linecol.Index, path, text string, d parser.LocatedDiagnostic) error {
	line, column := idx.LineColumnOf(d.Span.Start)
	source := lineText(idx, text, line)

	var sb strings.Builder
	sb.WriteString(p.loc.Sprintf("%s:%d:%d:", path, line, column))
	sb.WriteString(" " + p.err.Sprint("error "+d.ID.String()) + ": " + d.Message + "\n")
	sb.WriteString("  " + source + "\n")
	sb.WriteString("  " + p.caret.Sprint(underline(source, column-1, d.Span.Len())) + "\n")
	_, err := io.WriteString(p.w, sb.String())
	return err
}

// lineText returns the text of line without its line break.
func lineText(idx *linecol.Index, text string, line int) string {
	start := idx.LineStart(line)
	end := len(text)
	if next := idx.LineStart(line + 1); next >= 0 {
		end = next
	}
	return strings.TrimRight(text[start:end], "\r\n")
}

// underline builds the marker for the bytes [col, col+length) of source.
// Tabs in the prefix are kept so the marker lines up in a terminal, and
// wide characters count by their display width.
func underline(source string, col, length int) string {
	if col > len(source) {
		col = len(source)
	}
	end := col + length
	if end > len(source) {
		end = len(source)
	}

	var sb strings.Builder
	for _, r := range source[:col] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := runewidth.StringWidth(source[col:end])
	sb.WriteString("^")
	if width > 1 {
		sb.WriteString(strings.Repeat("~", width-1))
	}
	return sb.String()
}
