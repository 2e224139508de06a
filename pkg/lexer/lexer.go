package lexer

import "strings"

// Lexer turns source text into tokens on demand.
type Lexer struct {
	src  string
	pos  int       // byte offset of the next unread character
	line int       // 1-based
	col  int       // 1-based
	prev TokenType // type of the last token returned, decides if '-' starts a number
}

func NewLexer(s string) *Lexer {
	return &Lexer{src: s, line: 1, col: 1, prev: EOF}
}

// NextToken returns the next token, EOF forever once input is exhausted.
// Unknown characters, unterminated strings and bare quotes come back as ILLEGAL.
func (l *Lexer) NextToken() Token {
	if tok, ok := l.skipTrivia(); !ok {
		return l.emit(tok)
	}

	start := l.here()
	if l.pos >= len(l.src) {
		return l.emit(NewToken(EOF, "", "", start))
	}

	switch c := l.src[l.pos]; {
	case c == '"':
		return l.emit(l.scanString(start))
	case c == '\'':
		return l.emit(l.scanLifetime(start))
	case c == '-' && l.signedNumberAllowed():
		if t, m, ok := MatchToken(l.src[l.pos+1:]); ok && t == NUM {
			lexeme := "-" + m
			l.advance(len(lexeme))
			return l.emit(NewToken(NUM, lexeme, lexeme, start))
		}
	}

	t, lexeme, ok := MatchToken(l.src[l.pos:])
	if !ok {
		l.advance(1)
		return l.emit(NewToken(ILLEGAL, l.src[start.Offset:l.pos], "", start))
	}

	l.advance(len(lexeme))
	return l.emit(NewToken(t, lexeme, lexeme, start))
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	saved := *l
	tok := l.NextToken()
	*l = saved

	return tok
}

// HasMore reports whether unread input remains, trivia included.
func (l *Lexer) HasMore() bool {
	return l.pos < len(l.src)
}

func (l *Lexer) emit(tok Token) Token {
	l.prev = tok.Type
	return tok
}

// skipTrivia consumes whitespace, `//` line comments and `/* */` block comments.
// An unterminated block comment is reported as an ILLEGAL token.
func (l *Lexer) skipTrivia() (Token, bool) {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		switch {
		case rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r':
			l.advance(1)

		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			l.advance(end)

		case strings.HasPrefix(rest, "/*"):
			start := l.here()
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				l.advance(len(rest))
				return NewToken(ILLEGAL, rest, "", start), false
			}
			l.advance(end + 4)

		default:
			return Token{}, true
		}
	}

	return Token{}, true
}

// scanString reads a double-quoted literal. Literal holds the decoded text.
// Escapes: \n \t \r \0 \\ \" ; any other escaped character stands for itself.
func (l *Lexer) scanString(start Position) Token {
	var b strings.Builder

	i := l.pos + 1
	for i < len(l.src) {
		c := l.src[i]
		switch {
		case c == '"':
			lexeme := l.src[l.pos : i+1]
			l.advance(len(lexeme))
			return NewToken(STRING, lexeme, b.String(), start)

		case c == '\\' && i+1 < len(l.src):
			i++
			switch e := l.src[i]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(e)
			}
			i++

		default:
			b.WriteByte(c)
			i++
		}
	}

	lexeme := l.src[l.pos:]
	l.advance(len(lexeme))
	return NewToken(ILLEGAL, lexeme, "", start)
}

// scanLifetime reads 'name. Literal is the name without the quote.
func (l *Lexer) scanLifetime(start Position) Token {
	i := l.pos + 1
	if i >= len(l.src) || !isIdentStart(l.src[i]) {
		l.advance(1)
		return NewToken(ILLEGAL, "'", "", start)
	}

	for i < len(l.src) && isIdentPart(l.src[i]) {
		i++
	}

	lexeme := l.src[l.pos:i]
	l.advance(len(lexeme))
	return NewToken(LIFETIME, lexeme, lexeme[1:], start)
}

// signedNumberAllowed reports whether a '-' directly before digits belongs to the number:
// true where an operand is expected, false after an operand where it is subtraction.
func (l *Lexer) signedNumberAllowed() bool {
	if l.pos+1 >= len(l.src) || !isDigit(l.src[l.pos+1]) {
		return false
	}

	switch l.prev {
	case ID, NUM, STRING, TRUE, FALSE, RPAREN, RSBRACE, RBRACE:
		return false
	default:
		return true
	}
}

func (l *Lexer) advance(n int) {
	for ; n > 0 && l.pos < len(l.src); n-- {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *Lexer) here() Position {
	return NewPosition(l.line, l.col, l.pos)
}
