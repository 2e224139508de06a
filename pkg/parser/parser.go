package parser

import (
	"strconv"

	"vesper/pkg/ast"
	"vesper/pkg/lexer"
)

type Parser struct {
	tokens       []lexer.Token  // full token stream, EOF last
	pos          int            // index of the current token
	currentToken lexer.Token    // current token
	failed       bool           // set on the first error inside a function
	seen         map[string]int // function key -> line of first definition
	errors       []string       // list of errors
}

// NewParser creates a new parser instance
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{
		seen:   make(map[string]int),
		errors: []string{},
	}

	for {
		tok := l.NextToken()
		p.tokens = append(p.tokens, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}

	p.currentToken = p.tokens[0]

	return p
}

// Parse reads every function definition in the input.
// Functions containing errors are skipped; see Errors.
func (p *Parser) Parse() []*ast.Function {
	var functions []*ast.Function

	for p.currentToken.Type != lexer.EOF {
		if p.currentToken.Type != lexer.FN {
			p.addError("Expected function definition")
			p.skipToFunction()
			continue
		}

		p.failed = false
		f := p.parseFunction()
		if p.failed || f == nil {
			p.skipToFunction()
			continue
		}

		key := f.Key()
		if line, ok := p.seen[key]; ok {
			p.addErrorAt(f.Position, "Duplicate function `"+key+"`, first defined on line "+strconv.Itoa(line))
			continue
		}
		p.seen[key] = f.Position.Line
		functions = append(functions, f)
	}

	return functions
}

// ParseInto parses the input and registers every function into m.
// It reports whether parsing succeeded without errors.
func (p *Parser) ParseInto(m *ast.Module) bool {
	for _, f := range p.Parse() {
		m.Register(f)
	}

	return len(p.errors) == 0
}

// nextToken advances to the next token
func (p *Parser) nextToken() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.currentToken = p.tokens[p.pos]
}

// peek returns the token n positions ahead of the current one
func (p *Parser) peek(n int) lexer.Token {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}

	return p.tokens[len(p.tokens)-1]
}

// expect consumes the current token if it has the given type, reporting an error otherwise
func (p *Parser) expect(t lexer.TokenType) (lexer.Token, bool) {
	tok := p.currentToken
	if tok.Type != t {
		p.handleTerminalError(t)
		return tok, false
	}

	p.nextToken()
	return tok, true
}

// skipToFunction discards tokens up to the next top-level `fn`
func (p *Parser) skipToFunction() {
	for p.currentToken.Type != lexer.EOF {
		p.nextToken()
		if p.currentToken.Type == lexer.FN {
			return
		}
	}
}

func (p *Parser) parseFunction() *ast.Function {
	start, _ := p.expect(lexer.FN)
	name, ok := p.expect(lexer.ID)
	if !ok {
		return nil
	}

	if _, ok := p.expect(lexer.LPAREN); !ok {
		return nil
	}

	var params []ast.Param
	for p.currentToken.Type != lexer.RPAREN {
		param, ok := p.parseParam()
		if !ok {
			return nil
		}
		params = append(params, param)

		if p.currentToken.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}

	returns := false
	if p.currentToken.Type == lexer.ARROW {
		returns = true
		p.nextToken()
	}

	block := p.parseBlock()
	if block == nil {
		return nil
	}

	return &ast.Function{
		Name:     name.Literal,
		Args:     params,
		Returns:  returns,
		Block:    block,
		Position: start.Pos,
	}
}

func (p *Parser) parseParam() (ast.Param, bool) {
	param := ast.Param{Position: p.currentToken.Pos}

	if p.currentToken.Type == lexer.MUT {
		param.Mutable = true
		p.nextToken()
	}

	name, ok := p.expect(lexer.ID)
	if !ok {
		return param, false
	}
	param.Name = name.Literal

	if p.currentToken.Type == lexer.COLON {
		p.nextToken()
		lt, ok := p.expect(lexer.LIFETIME)
		if !ok {
			return param, false
		}
		param.Lifetime = lt.Literal
	}

	return param, true
}

func (p *Parser) parseBlock() *ast.Block {
	open, ok := p.expect(lexer.LBRACE)
	if !ok {
		return nil
	}

	block := &ast.Block{Position: open.Pos}
	for p.currentToken.Type != lexer.RBRACE {
		if p.currentToken.Type == lexer.EOF {
			p.handleUnexpectedEndOfInput()
			return nil
		}
		if p.currentToken.Type == lexer.SEMICOLON {
			p.nextToken()
			continue
		}

		expr := p.parseExpression()
		if p.failed {
			return nil
		}
		block.Expressions = append(block.Expressions, expr)
	}
	p.nextToken()

	return block
}
