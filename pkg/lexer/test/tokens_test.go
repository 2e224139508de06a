package lexer_test

import (
	"testing"

	"vesper/pkg/lexer"
)

func TestTokens(t *testing.T) {
	input := "fn title(mut window, val: 'window) {\n" +
		"	window.title = val\n" +
		"}\n" +
		"fn main() -> { x := [1, -2]; return x[0] <= 3 && !false }"
	mylexer := lexer.NewLexer(input)

	expectedTokens := []lexer.TokenType{
		lexer.FN, lexer.ID, lexer.LPAREN, lexer.MUT, lexer.ID, lexer.COMMA, lexer.ID, lexer.COLON, lexer.LIFETIME, lexer.RPAREN, lexer.LBRACE,
		lexer.ID, lexer.DOT, lexer.ID, lexer.ASSIGN, lexer.ID,
		lexer.RBRACE,
		lexer.FN, lexer.ID, lexer.LPAREN, lexer.RPAREN, lexer.ARROW, lexer.LBRACE,
		lexer.ID, lexer.DECLARE, lexer.LSBRACE, lexer.NUM, lexer.COMMA, lexer.NUM, lexer.RSBRACE, lexer.SEMICOLON,
		lexer.RETURN, lexer.ID, lexer.LSBRACE, lexer.NUM, lexer.RSBRACE, lexer.LE, lexer.NUM, lexer.AND, lexer.NOT, lexer.FALSE,
		lexer.RBRACE,
		lexer.EOF,
	}

	for i, expected := range expectedTokens {
		token := mylexer.NextToken()
		if token.Type != expected {
			t.Errorf("Token %d: expected %s, got %s (%q)", i, expected, token.Type, token.Lexeme)
		}
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input       string
		expected    lexer.TokenType
		literal     string
		description string
	}{
		{`"hello world!"`, lexer.STRING, "hello world!", "plain string"},
		{`"a\tb\n"`, lexer.STRING, "a\tb\n", "escaped string"},
		{`"say \"hi\""`, lexer.STRING, `say "hi"`, "escaped quotes"},
		{"'return", lexer.LIFETIME, "return", "return lifetime"},
		{"'window", lexer.LIFETIME, "window", "named lifetime"},
		{"-3.5", lexer.NUM, "-3.5", "negative number at start"},
		{"2.5e10", lexer.NUM, "2.5e10", "scientific notation"},
		{"true", lexer.TRUE, "true", "true keyword"},
		{"fnord", lexer.ID, "fnord", "identifier with keyword prefix"},
		{"_tmp", lexer.ID, "_tmp", "identifier with underscore"},
	}

	for _, test := range tests {
		tok := lexer.NewLexer(test.input).NextToken()
		if tok.Type != test.expected {
			t.Errorf("Input %s (%s): expected %s, got %s", test.input, test.description, test.expected, tok.Type)
		}
		if tok.Literal != test.literal {
			t.Errorf("Input %s (%s): expected literal %q, got %q", test.input, test.description, test.literal, tok.Literal)
		}
	}
}

func TestBinaryMinusAfterOperand(t *testing.T) {
	l := lexer.NewLexer("a -1")

	expected := []lexer.TokenType{lexer.ID, lexer.MINUS, lexer.NUM, lexer.EOF}
	for i, want := range expected {
		if got := l.NextToken().Type; got != want {
			t.Errorf("Token %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestIllegalTokens(t *testing.T) {
	tests := []struct {
		input       string
		lexeme      string
		column      int
		description string
	}{
		{"x @", "@", 3, "unknown character"},
		{`  "open`, `"open`, 3, "unterminated string"},
		{"f(' x)", "'", 3, "quote without lifetime name"},
		{"a /* never closed", "/* never closed", 3, "unterminated block comment"},
	}

	for _, test := range tests {
		l := lexer.NewLexer(test.input)

		var tok lexer.Token
		for tok = l.NextToken(); tok.Type != lexer.ILLEGAL && tok.Type != lexer.EOF; tok = l.NextToken() {
		}

		if tok.Type != lexer.ILLEGAL {
			t.Errorf("Input %q (%s): expected ILLEGAL, got %s", test.input, test.description, tok.Type)
			continue
		}
		if tok.Lexeme != test.lexeme {
			t.Errorf("Input %q (%s): expected lexeme %q, got %q", test.input, test.description, test.lexeme, tok.Lexeme)
		}
		if tok.Pos.Line != 1 || tok.Pos.Column != test.column {
			t.Errorf("Input %q (%s): expected position 1:%d, got %d:%d",
				test.input, test.description, test.column, tok.Pos.Line, tok.Pos.Column)
		}
	}
}

func TestStringEscapes(t *testing.T) {
	tok := lexer.NewLexer(`"tab\there\\ \q \0end"`).NextToken()

	expected := "tab\there\\ q \x00end"
	if tok.Type != lexer.STRING || tok.Literal != expected {
		t.Errorf("Expected STRING %q, got %s %q", expected, tok.Type, tok.Literal)
	}
}
