// Package lexer splits template source into raw text runs and {command ...}
// tags. It recognizes tag boundaries only; command text is handed to the
// directive-specific builders untouched.
package lexer

import "github.com/sable-lang/sable/internal/source"

// TokenType represents the type of a token.
type TokenType string

const (
	// RAW_TEXT is a run of literal template text between tags.
	RAW_TEXT TokenType = "RAW_TEXT"
	// TAG is one {command ...} tag, open, close or self-closing.
	TAG TokenType = "TAG"
	// EOF marks the end of input.
	EOF TokenType = "EOF"
)

// Token represents one lexical unit of a template file.
type Token struct {
	Type TokenType
	// Raw is the exact source text, braces included for tags.
	Raw string
	// Command is the tag's command word, e.g. "for", "/for", "delcall".
	// Implicit print tags ({$expr}) report "print". Empty for raw text.
	Command string
	// CommandText is the text following the command word, trimmed.
	CommandText string
	// SelfClosing is set for {command ... /} tags.
	SelfClosing bool
	// Location covers the token's full source range.
	Location source.Location
}

// IsClose reports whether the token is a {/command} closing tag.
func (t Token) IsClose() bool {
	return t.Type == TAG && len(t.Command) > 0 && t.Command[0] == '/'
}

// CloseOf reports whether the token closes the given command.
func (t Token) CloseOf(command string) bool {
	return t.IsClose() && t.Command[1:] == command
}
