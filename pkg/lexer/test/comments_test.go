package lexer_test

import (
	"testing"

	"vesper/pkg/lexer"
)

func TestComments(t *testing.T) {
	input := "// leading comment\n" +
		"x := 1 // trailing\n" +
		"/* block\n comment */ y\n"
	l := lexer.NewLexer(input)

	expected := []lexer.TokenType{lexer.ID, lexer.DECLARE, lexer.NUM, lexer.ID, lexer.EOF}
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("Token %d: expected %s, got %s", i, want, tok.Type)
		}
	}
}

func TestPositions(t *testing.T) {
	l := lexer.NewLexer("x\n  y")

	first := l.NextToken()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Errorf("expected x at 1:1, got %d:%d", first.Pos.Line, first.Pos.Column)
	}

	second := l.NextToken()
	if second.Pos.Line != 2 || second.Pos.Column != 3 {
		t.Errorf("expected y at 2:3, got %d:%d", second.Pos.Line, second.Pos.Column)
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	l := lexer.NewLexer("a b")

	if p := l.Peek(); p.Lexeme != "a" {
		t.Fatalf("expected peek a, got %q", p.Lexeme)
	}
	if n := l.NextToken(); n.Lexeme != "a" {
		t.Fatalf("expected next a, got %q", n.Lexeme)
	}
	if n := l.NextToken(); n.Lexeme != "b" {
		t.Fatalf("expected next b, got %q", n.Lexeme)
	}
}
