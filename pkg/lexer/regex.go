package lexer

import "regexp"

// Operators, keywords, identifiers and numbers are matched by pattern.
// Strings and lifetimes have escapes and sigils and are scanned by hand in lexer.go.
var tokenPatterns = map[TokenType]*regexp.Regexp{
	DECLARE: regexp.MustCompile(`^:=`),
	ARROW:   regexp.MustCompile(`^->`),
	LE:      regexp.MustCompile(`^<=`),
	GE:      regexp.MustCompile(`^>=`),
	EQ:      regexp.MustCompile(`^==`),
	NE:      regexp.MustCompile(`^!=`),
	AND:     regexp.MustCompile(`^&&`),
	OR:      regexp.MustCompile(`^\|\|`),

	FN:     regexp.MustCompile(`^fn\b`),
	RETURN: regexp.MustCompile(`^return\b`),
	IF:     regexp.MustCompile(`^if\b`),
	ELSE:   regexp.MustCompile(`^else\b`),
	MUT:    regexp.MustCompile(`^mut\b`),
	TRUE:   regexp.MustCompile(`^true\b`),
	FALSE:  regexp.MustCompile(`^false\b`),

	ASSIGN: regexp.MustCompile(`^=`),
	PLUS:   regexp.MustCompile(`^\+`),
	MINUS:  regexp.MustCompile(`^-`),
	MULT:   regexp.MustCompile(`^\*`),
	DIV:    regexp.MustCompile(`^/`),
	MOD:    regexp.MustCompile(`^%`),
	LT:     regexp.MustCompile(`^<`),
	GT:     regexp.MustCompile(`^>`),
	NOT:    regexp.MustCompile(`^!`),

	DOT:       regexp.MustCompile(`^\.`),
	SEMICOLON: regexp.MustCompile(`^;`),
	COMMA:     regexp.MustCompile(`^,`),
	COLON:     regexp.MustCompile(`^:`),
	LPAREN:    regexp.MustCompile(`^\(`),
	RPAREN:    regexp.MustCompile(`^\)`),
	LBRACE:    regexp.MustCompile(`^\{`),
	RBRACE:    regexp.MustCompile(`^\}`),
	LSBRACE:   regexp.MustCompile(`^\[`),
	RSBRACE:   regexp.MustCompile(`^\]`),

	NUM: regexp.MustCompile(`^\d+(\.\d+)?([eE][+-]?\d+)?`),
	ID:  regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*`),
}

// Two-character operators before their one-character prefixes, keywords before ID.
var matchOrder = []TokenType{
	DECLARE, ARROW, LE, GE, EQ, NE, AND, OR,
	RETURN, FALSE, ELSE, TRUE, MUT, FN, IF,
	ASSIGN, PLUS, MINUS, MULT, DIV, MOD, LT, GT, NOT,
	DOT, SEMICOLON, COMMA, COLON,
	LPAREN, RPAREN, LBRACE, RBRACE, LSBRACE, RSBRACE,
	NUM, ID,
}

// MatchToken classifies the pattern-matched token at the start of s.
// Strings, lifetimes, whitespace and comments are not matched here.
func MatchToken(s string) (TokenType, string, bool) {
	for _, t := range matchOrder {
		if m := tokenPatterns[t].FindString(s); m != "" {
			return t, m, true
		}
	}

	return ILLEGAL, "", false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
