package lexer

import (
	"fmt"
)

type TokenType int
type TokenCategory int

type Token struct {
	Type    TokenType // Type of the token
	Lexeme  string    // Actual string from source code
	Literal string    // Literal value (if applicable), empty string if not
	Pos     Position  // Position in source code
}

// NewToken creates a new Token instance
func NewToken(tokenType TokenType, lexeme string, literal string, Pos Position) Token {
	return Token{
		Type:    tokenType,
		Lexeme:  lexeme,
		Literal: literal,
		Pos:     Pos,
	}
}

const (
	NONE TokenCategory = iota
	KEYWORD
	IDENTIFIER
	LITERAL
	OPERATOR
	DELIMITER
)

const (
	EOF TokenType = iota // End of file

	FN     // fn
	RETURN // return
	IF     // if
	ELSE   // else
	MUT    // mut
	TRUE   // true
	FALSE  // false

	ID       // id (identifier)
	NUM      // num (number)
	STRING   // string literal
	LIFETIME // 'name

	DECLARE // :=
	ASSIGN  // =
	ARROW   // ->
	PLUS    // +
	MINUS   // -
	MULT    // *
	DIV     // /
	MOD     // %
	LT      // <
	GT      // >
	LE      // <=
	GE      // >=
	EQ      // ==
	NE      // !=
	AND     // &&
	OR      // ||
	NOT     // !

	DOT       // .
	SEMICOLON // ;
	COMMA     // ,
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LSBRACE   // [
	RSBRACE   // ]

	ILLEGAL // illegal token
)

var Keywords = map[string]TokenType{
	"fn":     FN,
	"return": RETURN,
	"if":     IF,
	"else":   ELSE,
	"mut":    MUT,
	"true":   TRUE,
	"false":  FALSE,
}

var tokenNames = map[TokenType]string{
	FN:        "fn",
	RETURN:    "return",
	IF:        "if",
	ELSE:      "else",
	MUT:       "mut",
	TRUE:      "true",
	FALSE:     "false",
	ID:        "id",
	NUM:       "num",
	STRING:    "string",
	LIFETIME:  "lifetime",
	DECLARE:   ":=",
	ASSIGN:    "=",
	ARROW:     "->",
	PLUS:      "+",
	MINUS:     "-",
	MULT:      "*",
	DIV:       "/",
	MOD:       "%",
	LT:        "<",
	GT:        ">",
	LE:        "<=",
	GE:        ">=",
	EQ:        "==",
	NE:        "!=",
	AND:       "&&",
	OR:        "||",
	NOT:       "!",
	DOT:       ".",
	SEMICOLON: ";",
	COMMA:     ",",
	COLON:     ":",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LSBRACE:   "[",
	RSBRACE:   "]",
	ILLEGAL:   "illegal",
	EOF:       "$",
}

// TokenToString converts a TokenType to its string representation
func (t Token) TokenToString() (string, bool) {
	str, ok := tokenNames[t.Type]
	return str, ok
}

// String returns a string representation of the Token
func (t Token) String() string {
	if t.Literal == "" {
		return fmt.Sprintf("T_{%s, %v, nil, %s}",
			t.Type, t.Lexeme, t.Pos.String())
	}

	return fmt.Sprintf("T_{%s, %v, %q, %s}",
		t.Type, t.Lexeme, t.Literal, t.Pos.String())
}

// String returns a string representation of the TokenType
func (t TokenType) String() string {
	if str, ok := (Token{Type: t}).TokenToString(); ok {
		return str
	}

	return fmt.Sprintf("UNKNOWN(%d)", int(t))
}

// GetCategory returns the category of the token
func (t TokenType) GetCategory() TokenCategory {
	switch t {
	case FN, RETURN, IF, ELSE, MUT, TRUE, FALSE:
		return KEYWORD
	case ID:
		return IDENTIFIER
	case NUM, STRING, LIFETIME:
		return LITERAL
	case DECLARE, ASSIGN, ARROW, PLUS, MINUS, MULT, DIV, MOD, LT, GT, LE, GE, EQ, NE, AND, OR, NOT:
		return OPERATOR
	case DOT, SEMICOLON, COMMA, COLON, LPAREN, RPAREN, LBRACE, RBRACE, LSBRACE, RSBRACE:
		return DELIMITER
	default:
		return NONE
	}
}

// IsKeyword checks if the given identifier is a keyword and returns its TokenType if it is
func IsKeyword(identifier string) (TokenType, bool) {
	tokenType, ok := Keywords[identifier]
	return tokenType, ok
}
