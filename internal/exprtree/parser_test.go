package exprtree_test

import (
	"testing"

	"github.com/sable-lang/sable/internal/exprtree"
)

func mustParse(t *testing.T, text string) exprtree.Expr {
	t.Helper()

	expr, err := exprtree.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return expr
}

func TestParseRoundTrips(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"$items", "$items"},
		{"  $user.name ", "$user.name"},
		{"'hello'", "'hello'"},
		{"42", "42"},
		{"3.14", "3.14"},
		{"true", "true"},
		{"null", "null"},
		{"app.MODE", "app.MODE"},
		{"length($items)", "length($items)"},
		{"$a + $b * 2", "$a + $b * 2"},
		{"not $done", "not $done"},
		{"-$x", "-$x"},
		{"$n > 0 and $n < 10", "$n > 0 and $n < 10"},
		{"$ok ? 'yes' : 'no'", "$ok ? 'yes' : 'no'"},
		{"( $a + $b )", "$a + $b"},
		{"max($a, $b)", "max($a, $b)"},
	}

	for _, tt := range tests {
		expr := mustParse(t, tt.input)
		if got := expr.SourceString(); got != tt.want {
			t.Errorf("Parse(%q).SourceString() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParsePrecedence(t *testing.T) {
	expr := mustParse(t, "$a + $b * $c")

	bin, ok := expr.(*exprtree.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected '+' at root, got %T (%s)", expr, expr.SourceString())
	}
	right, ok := bin.Right.(*exprtree.BinaryExpr)
	if !ok || right.Op != "*" {
		t.Fatalf("expected '*' on the right, got %T", bin.Right)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"$",
		"'unterminated",
		"$a +",
		"foo bar",
		"$a ? $b",
		"1 @ 2",
		"and $x",
	}

	for _, input := range tests {
		if _, err := exprtree.Parse(input); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", input)
		}
	}
}

func TestAsStringLiteral(t *testing.T) {
	if v, ok := exprtree.AsStringLiteral(mustParse(t, "'alternate'")); !ok || v != "alternate" {
		t.Errorf("expected string literal 'alternate', got %q (ok=%v)", v, ok)
	}
	if _, ok := exprtree.AsStringLiteral(mustParse(t, "$variant")); ok {
		t.Errorf("a variable reference is not a string literal")
	}
}

func TestCopyIsDeep(t *testing.T) {
	orig := mustParse(t, "$a + length($items)").(*exprtree.BinaryExpr)
	clone := orig.Copy().(*exprtree.BinaryExpr)

	if clone == orig || clone.Left == orig.Left || clone.Right == orig.Right {
		t.Fatalf("Copy must not alias subtrees")
	}

	// Mutating the clone's subtree must not affect the original.
	clone.Right.(*exprtree.FuncCall).Name = "size"
	if orig.SourceString() != "$a + length($items)" {
		t.Errorf("original mutated through clone: %s", orig.SourceString())
	}
}

func TestIdentifierPredicates(t *testing.T) {
	valid := []string{"x", "_x", "foo9", "Foo_Bar"}
	for _, s := range valid {
		if !exprtree.IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "9x", "foo bar", "a.b", "a-b"}
	for _, s := range invalid {
		if exprtree.IsIdentifier(s) {
			t.Errorf("IsIdentifier(%q) = true, want false", s)
		}
	}

	dottedValid := []string{"a", "a.b", "featured.banner_v2"}
	for _, s := range dottedValid {
		if !exprtree.IsDottedIdentifier(s) {
			t.Errorf("IsDottedIdentifier(%q) = false, want true", s)
		}
	}
	dottedInvalid := []string{"", ".", ".a", "a.", "a..b", "123bad", "a.1b"}
	for _, s := range dottedInvalid {
		if exprtree.IsDottedIdentifier(s) {
			t.Errorf("IsDottedIdentifier(%q) = true, want false", s)
		}
	}
}
