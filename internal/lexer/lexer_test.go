package lexer_test

import (
	"testing"

	"github.com/sable-lang/sable/internal/lexer"
)

func collect(t *testing.T, input string) []lexer.Token {
	t.Helper()

	lx := lexer.New(input, "test.sable")
	var tokens []lexer.Token
	for {
		tok := lx.NextToken()
		if tok.Type == lexer.EOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestScanRawTextAndTags(t *testing.T) {
	tokens := collect(t, "Hello {$name}!")

	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Type != lexer.RAW_TEXT || tokens[0].Raw != "Hello " {
		t.Errorf("token 0: %+v", tokens[0])
	}
	if tokens[1].Type != lexer.TAG || tokens[1].Command != "print" || tokens[1].CommandText != "$name" {
		t.Errorf("token 1: %+v", tokens[1])
	}
	if tokens[2].Raw != "!" {
		t.Errorf("token 2: %+v", tokens[2])
	}
}

func TestScanCommandTags(t *testing.T) {
	tokens := collect(t, `{for $item in $items}x{ifempty}y{/for}`)

	wantCommands := []string{"for", "", "ifempty", "", "/for"}
	if len(tokens) != len(wantCommands) {
		t.Fatalf("expected %d tokens, got %d", len(wantCommands), len(tokens))
	}
	for i, want := range wantCommands {
		if tokens[i].Command != want {
			t.Errorf("token %d command = %q, want %q", i, tokens[i].Command, want)
		}
	}
	if tokens[0].CommandText != "$item in $items" {
		t.Errorf("for command text = %q", tokens[0].CommandText)
	}
	if !tokens[4].CloseOf("for") {
		t.Errorf("expected {/for} to close 'for'")
	}
}

func TestSelfClosingTag(t *testing.T) {
	tokens := collect(t, `{delcall featured.banner allowemptydefault="true" /}`)

	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d", len(tokens))
	}
	tok := tokens[0]
	if !tok.SelfClosing {
		t.Errorf("expected self-closing tag")
	}
	if tok.Command != "delcall" {
		t.Errorf("command = %q", tok.Command)
	}
	if tok.CommandText != `featured.banner allowemptydefault="true"` {
		t.Errorf("command text = %q", tok.CommandText)
	}
}

func TestBracesInsideQuotedValues(t *testing.T) {
	tokens := collect(t, `{call .foo data="$a['}']" /}`)

	if len(tokens) != 1 {
		t.Fatalf("expected 1 token, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].CommandText != `.foo data="$a['}']"` {
		t.Errorf("command text = %q", tokens[0].CommandText)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	tokens := collect(t, "line one\n  {print $x}")

	tag := tokens[1]
	if tag.Location.BeginLine != 2 || tag.Location.BeginColumn != 3 {
		t.Errorf("tag location = %s, want test.sable:2:3", tag.Location)
	}
}

func TestUnclosedTagReportsError(t *testing.T) {
	lx := lexer.New("{for $x in $xs", "test.sable")
	for {
		if tok := lx.NextToken(); tok.Type == lexer.EOF {
			break
		}
	}
	if len(lx.Errors) != 1 {
		t.Fatalf("expected 1 lex error, got %d", len(lx.Errors))
	}
	d := lx.Errors[0].ToDiagnostic()
	if d.Code == "" || d.Location.BeginLine != 1 {
		t.Errorf("diagnostic not populated: %+v", d)
	}
}
