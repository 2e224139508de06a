package lexer_test

import (
	"testing"

	"vesper/pkg/lexer"
)

func TestNumbers(t *testing.T) {
	tests := []struct {
		input       string
		description string
	}{
		{"0", "zero"},
		{"42", "integer"},
		{"2.5", "float"},
		{"0.125", "float starting with zero"},
		{"1e9", "exponent"},
		{"6.02E+23", "signed upper case exponent"},
		{"1.5e-3", "negative exponent"},
	}

	for _, test := range tests {
		tokenType, lexeme, matched := lexer.MatchToken(test.input)
		if !matched || tokenType != lexer.NUM {
			t.Errorf("Input %s (%s): expected NUM, got %s", test.input, test.description, tokenType)
		}
		if lexeme != test.input {
			t.Errorf("Input %s (%s): expected lexeme %s, got %s", test.input, test.description, test.input, lexeme)
		}
	}
}

func TestSignedNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected []lexer.TokenType
	}{
		{"-1", []lexer.TokenType{lexer.NUM}},
		{"f(-1)", []lexer.TokenType{lexer.ID, lexer.LPAREN, lexer.NUM, lexer.RPAREN}},
		{"x := -2.5", []lexer.TokenType{lexer.ID, lexer.DECLARE, lexer.NUM}},
		{"a -1", []lexer.TokenType{lexer.ID, lexer.MINUS, lexer.NUM}},
		{"a[0] - 1", []lexer.TokenType{lexer.ID, lexer.LSBRACE, lexer.NUM, lexer.RSBRACE, lexer.MINUS, lexer.NUM}},
		{"-x", []lexer.TokenType{lexer.MINUS, lexer.ID}},
	}

	for _, test := range tests {
		l := lexer.NewLexer(test.input)
		for i, expected := range test.expected {
			tok := l.NextToken()
			if tok.Type != expected {
				t.Errorf("Input %q token %d: expected %s, got %s", test.input, i, expected, tok.Type)
			}
		}
		if tok := l.NextToken(); tok.Type != lexer.EOF {
			t.Errorf("Input %q: expected EOF, got %s", test.input, tok.Type)
		}
	}
}
