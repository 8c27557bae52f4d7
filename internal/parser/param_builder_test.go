package parser_test

import (
	"testing"

	"github.com/sable-lang/sable/internal/ast"
	"github.com/sable-lang/sable/internal/diag"
	"github.com/sable-lang/sable/internal/ids"
	"github.com/sable-lang/sable/internal/parser"
	"github.com/sable-lang/sable/internal/source"
)

func TestParamBuilderValueParam(t *testing.T) {
	sink := diag.NewSink()
	node := parser.NewParamBuilder(ids.NewSequence(), source.Unknown).
		SetCommandText("goo: $moo.koo").
		Build(sink)

	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if node.Key() != "goo" {
		t.Errorf("Key() = %q, want %q", node.Key(), "goo")
	}
	if node.ValueExpr() == nil || node.ValueExpr().SourceString() != "$moo.koo" {
		t.Errorf("ValueExpr() lost the expression")
	}
}

func TestParamBuilderBlockParam(t *testing.T) {
	gen := ids.NewSequence()
	sink := diag.NewSink()
	node := parser.NewParamBuilder(gen, source.Unknown).
		SetCommandText("goo").
		SetContent([]ast.Node{ast.NewRawTextNode(gen, "content", source.Unknown)}).
		Build(sink)

	if sink.Count() != 0 {
		t.Fatalf("unexpected diagnostics: %v", sink.Errors())
	}
	if node.Key() != "goo" {
		t.Errorf("Key() = %q, want %q", node.Key(), "goo")
	}
	if node.ValueExpr() != nil {
		t.Errorf("a block param has no value expression")
	}
	if node.NumChildren() != 1 {
		t.Errorf("block content lost")
	}
}

func TestParamBuilderBadExpression(t *testing.T) {
	sink := diag.NewSink()
	node := parser.NewParamBuilder(ids.NewSequence(), source.Unknown).
		SetCommandText("goo: +").
		Build(sink)

	if got := codesOf(sink); len(got) != 1 || got[0] != diag.CodeExprSyntax {
		t.Fatalf("expected one expression diagnostic, got %v", sink.Errors())
	}
	if node.Key() != "goo" || node.ValueExpr() != nil {
		t.Errorf("the key survives a bad value expression")
	}
}

func TestParamBuilderMalformedText(t *testing.T) {
	sink := diag.NewSink()
	node := parser.NewParamBuilder(ids.NewSequence(), source.Unknown).
		SetCommandText("not a param!").
		Build(sink)

	if got := codesOf(sink); len(got) != 1 || got[0] != diag.CodeMalformedCommandText {
		t.Fatalf("expected one malformed-command-text diagnostic, got %v", sink.Errors())
	}
	if node.Key() != ast.ErrorVarName {
		t.Errorf("Key() = %q, want the sentinel name", node.Key())
	}
}

func TestParamBuilderPanicsWithoutCommandText(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Build() should panic when SetCommandText was skipped")
		}
	}()
	parser.NewParamBuilder(ids.NewSequence(), source.Unknown).Build(diag.NewSink())
}
