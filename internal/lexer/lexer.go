package lexer

import (
	"strings"

	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/source"
)

// LexError records a tokenization failure with location context.
type LexError struct {
	Message  string
	Location source.Location
}

// ToDiagnostic converts a lexer error into a shared diagnostic structure.
func (e LexError) ToDiagnostic() diag.Diagnostic {
	return diag.Errorf(diag.StageParse, diag.CodeUnclosedTag, e.Location, "%s", e.Message)
}

// Lexer scans template source into raw text and tag tokens.
type Lexer struct {
	input    string
	filename string
	pos      int // byte offset of the next unread character
	line     int // 1-based
	column   int // 1-based, column of the character at pos

	Errors []LexError
}

// New creates a lexer over input. The filename is attributed to every
// emitted location.
func New(input, filename string) *Lexer {
	return &Lexer{
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
	}
}

func (l *Lexer) addError(msg string, loc source.Location) {
	l.Errors = append(l.Errors, LexError{Message: msg, Location: loc})
}

// NextToken returns the next token. After the input is exhausted it returns
// EOF tokens forever.
func (l *Lexer) NextToken() Token {
	if l.pos >= len(l.input) {
		return Token{Type: EOF, Location: source.New(l.filename, l.line, l.column)}
	}
	if l.input[l.pos] == '{' {
		return l.scanTag()
	}
	return l.scanRawText()
}

// scanRawText consumes literal text up to the next '{' or EOF.
func (l *Lexer) scanRawText() Token {
	startLine, startCol := l.line, l.column
	start := l.pos
	for l.pos < len(l.input) && l.input[l.pos] != '{' {
		l.advance()
	}
	raw := l.input[start:l.pos]
	return Token{
		Type:     RAW_TEXT,
		Raw:      raw,
		Location: source.NewRange(l.filename, startLine, startCol, l.line, l.prevColumn()),
	}
}

// scanTag consumes one {command ...} tag. Closing braces inside double- or
// single-quoted attribute values do not terminate the tag.
func (l *Lexer) scanTag() Token {
	startLine, startCol := l.line, l.column
	start := l.pos
	l.advance() // consume '{'

	var quote byte
	closed := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
		} else if c == '"' || c == '\'' {
			quote = c
		} else if c == '}' {
			l.advance()
			closed = true
			break
		}
		l.advance()
	}

	raw := l.input[start:l.pos]
	loc := source.NewRange(l.filename, startLine, startCol, l.line, l.prevColumn())
	if !closed {
		l.addError("unclosed tag "+clip(raw), loc)
		return Token{Type: TAG, Raw: raw, Command: "", CommandText: "", Location: loc}
	}

	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	selfClosing := false
	if strings.HasSuffix(inner, "/") {
		selfClosing = true
		inner = strings.TrimSpace(inner[:len(inner)-1])
	}

	command, commandText := splitCommand(inner)
	return Token{
		Type:        TAG,
		Raw:         raw,
		Command:     command,
		CommandText: commandText,
		SelfClosing: selfClosing,
		Location:    loc,
	}
}

// splitCommand separates the command word from its command text. A tag whose
// first token starts with '$' is an implicit print.
func splitCommand(inner string) (command, commandText string) {
	if inner == "" {
		return "", ""
	}
	if inner[0] == '$' {
		return "print", inner
	}

	end := strings.IndexFunc(inner, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if end == -1 {
		return inner, ""
	}
	return inner[:end], strings.TrimSpace(inner[end:])
}

// advance consumes one byte, maintaining line/column bookkeeping.
func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

// prevColumn returns the column of the last consumed character.
func (l *Lexer) prevColumn() int {
	if l.column > 1 {
		return l.column - 1
	}
	return 1
}

func clip(s string) string {
	if len(s) > 30 {
		return s[:30] + "..."
	}
	return s
}
