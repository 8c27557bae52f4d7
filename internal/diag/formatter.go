package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sable-lang/sable/internal/source"
)

var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleNote    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	styleGutter  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleCaret   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Formatter renders diagnostics with a source-code excerpt and caret markers.
type Formatter struct {
	out         io.Writer
	color       bool
	sourceCache map[string]string
}

// NewFormatter creates a formatter writing to out. When color is false all
// lipgloss styling is skipped, which keeps output stable for tests and pipes.
func NewFormatter(out io.Writer, color bool) *Formatter {
	return &Formatter{
		out:         out,
		color:       color,
		sourceCache: make(map[string]string),
	}
}

// AddSource registers in-memory source text for a file, bypassing disk reads.
// The file parser uses this so excerpts work for any input it has seen.
func (f *Formatter) AddSource(filePath, src string) {
	f.sourceCache[filePath] = src
}

// loadSource returns source code for a file, reading from disk on a cache miss.
func (f *Formatter) loadSource(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("no file path")
	}
	if src, ok := f.sourceCache[filePath]; ok {
		return src, nil
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	f.sourceCache[filePath] = string(data)
	return string(data), nil
}

func (f *Formatter) style(s lipgloss.Style, text string) string {
	if !f.color {
		return text
	}
	return s.Render(text)
}

func (f *Formatter) severityStyle(sev Severity) lipgloss.Style {
	switch sev {
	case SeverityWarning:
		return styleWarning
	case SeverityNote:
		return styleNote
	default:
		return styleError
	}
}

// Format renders one diagnostic, with a source excerpt when the location is
// known and its file is readable.
func (f *Formatter) Format(d Diagnostic) {
	sev := d.Severity
	if sev == "" {
		sev = SeverityError
	}

	header := fmt.Sprintf("%s[%s]", sev, d.Code)
	fmt.Fprintf(f.out, "%s: %s\n", f.style(f.severityStyle(sev), header), d.Message)

	loc := d.Location
	if loc.IsKnown() || loc.FilePath != "" {
		fmt.Fprintf(f.out, "  %s %s\n", f.style(styleGutter, "-->"), loc)
	}

	if loc.IsKnown() {
		if src, err := f.loadSource(loc.FilePath); err == nil {
			f.printExcerpt(src, loc)
		}
	}

	if d.Cause != nil {
		fmt.Fprintf(f.out, "  %s caused by: %s\n", f.style(styleGutter, "="), d.Cause)
	}
}

// FormatAll renders every diagnostic separated by blank lines.
func (f *Formatter) FormatAll(diags []Diagnostic) {
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(f.out)
		}
		f.Format(d)
	}
}

// printExcerpt prints the offending source line with a caret run underneath.
func (f *Formatter) printExcerpt(src string, loc source.Location) {
	lines := strings.Split(src, "\n")
	if loc.BeginLine > len(lines) {
		return
	}
	line := lines[loc.BeginLine-1]

	gutterWidth := len(fmt.Sprintf("%d", loc.BeginLine))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(f.out, "%s %s\n", f.style(styleGutter, pad+" |"), "")
	fmt.Fprintf(f.out, "%s %s\n", f.style(styleGutter, fmt.Sprintf("%d |", loc.BeginLine)), line)

	caretStart := loc.BeginColumn
	caretLen := 1
	if loc.EndLine == loc.BeginLine && loc.EndColumn >= loc.BeginColumn {
		caretLen = loc.EndColumn - loc.BeginColumn + 1
	}
	if caretStart > len(line)+1 {
		caretStart = len(line) + 1
	}
	carets := strings.Repeat(" ", caretStart-1) + strings.Repeat("^", caretLen)
	fmt.Fprintf(f.out, "%s %s\n", f.style(styleGutter, pad+" |"), f.style(styleCaret, carets))
}
