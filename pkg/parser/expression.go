package parser

import (
	"strconv"

	"vesper/pkg/ast"
	"vesper/pkg/lexer"
)

// binary operator precedence, lowest first
var precedence = [][]lexer.TokenType{
	{lexer.OR},
	{lexer.AND},
	{lexer.EQ, lexer.NE},
	{lexer.LT, lexer.LE, lexer.GT, lexer.GE},
	{lexer.PLUS, lexer.MINUS},
	{lexer.MULT, lexer.DIV, lexer.MOD},
}

func (p *Parser) parseExpression() ast.Expression {
	tok := p.currentToken

	// declaration
	if tok.Type == lexer.ID && p.peek(1).Type == lexer.DECLARE {
		p.nextToken()
		p.nextToken()
		value := p.parseExpression()
		if p.failed {
			return nil
		}
		return &ast.Declare{Name: tok.Literal, Value: value, Position: tok.Pos}
	}

	left := p.parseBinary(0)
	if p.failed {
		return nil
	}

	if p.currentToken.Type == lexer.ASSIGN {
		switch left.(type) {
		case *ast.Item, *ast.Field, *ast.Index:
		default:
			p.addError("Invalid assignment target")
			return nil
		}

		p.nextToken()
		value := p.parseExpression()
		if p.failed {
			return nil
		}
		return &ast.Assign{Target: left, Value: value, Position: tok.Pos}
	}

	return left
}

func (p *Parser) parseBinary(level int) ast.Expression {
	if level == len(precedence) {
		return p.parseUnary()
	}

	left := p.parseBinary(level + 1)
	for !p.failed && isOneOf(p.currentToken.Type, precedence[level]) {
		op := p.currentToken
		p.nextToken()
		right := p.parseBinary(level + 1)
		if p.failed {
			return nil
		}
		left = &ast.Binary{Op: op.Type, Left: left, Right: right, Position: op.Pos}
	}

	return left
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.currentToken
	if tok.Type == lexer.MINUS || tok.Type == lexer.NOT {
		p.nextToken()
		operand := p.parseUnary()
		if p.failed {
			return nil
		}
		return &ast.Unary{Op: tok.Type, Operand: operand, Position: tok.Pos}
	}

	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()

	for !p.failed {
		tok := p.currentToken
		switch tok.Type {
		case lexer.DOT:
			p.nextToken()
			name, ok := p.expect(lexer.ID)
			if !ok {
				return nil
			}
			expr = &ast.Field{Target: expr, Name: name.Literal, Position: tok.Pos}

		case lexer.LSBRACE:
			p.nextToken()
			index := p.parseExpression()
			if p.failed {
				return nil
			}
			if _, ok := p.expect(lexer.RSBRACE); !ok {
				return nil
			}
			expr = &ast.Index{Target: expr, Index: index, Position: tok.Pos}

		default:
			return expr
		}
	}

	return nil
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.currentToken

	switch tok.Type {
	case lexer.NUM:
		p.nextToken()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.addErrorAt(tok.Pos, "Invalid number")
			return nil
		}
		return &ast.Number{Value: v, Position: tok.Pos}

	case lexer.STRING:
		p.nextToken()
		return &ast.Text{Value: tok.Literal, Position: tok.Pos}

	case lexer.TRUE, lexer.FALSE:
		p.nextToken()
		return &ast.Bool{Value: tok.Type == lexer.TRUE, Position: tok.Pos}

	case lexer.ID:
		if p.peek(1).Type == lexer.LPAREN {
			return p.parseCall()
		}
		p.nextToken()
		return &ast.Item{Name: tok.Literal, Position: tok.Pos}

	case lexer.LPAREN:
		p.nextToken()
		expr := p.parseExpression()
		if p.failed {
			return nil
		}
		if _, ok := p.expect(lexer.RPAREN); !ok {
			return nil
		}
		return expr

	case lexer.LSBRACE:
		return p.parseArray()

	case lexer.LBRACE:
		if p.isObjectLiteral() {
			return p.parseObject()
		}
		return p.parseBlock()

	case lexer.RETURN:
		p.nextToken()
		ret := &ast.Return{Position: tok.Pos}
		switch p.currentToken.Type {
		case lexer.RBRACE, lexer.SEMICOLON, lexer.EOF:
		default:
			ret.Value = p.parseExpression()
			if p.failed {
				return nil
			}
		}
		return ret

	case lexer.IF:
		return p.parseIf()

	case lexer.EOF:
		p.handleUnexpectedEndOfInput()
		return nil

	default:
		p.handleNonTerminalError("expression")
		return nil
	}
}

func (p *Parser) parseCall() ast.Expression {
	name := p.currentToken
	p.nextToken()
	p.nextToken() // (

	call := &ast.Call{Name: name.Literal, Position: name.Pos}
	for p.currentToken.Type != lexer.RPAREN {
		if p.currentToken.Type == lexer.MUT {
			p.nextToken()
			item, ok := p.expect(lexer.ID)
			if !ok {
				return nil
			}
			call.Args = append(call.Args, &ast.Item{Name: item.Literal, Position: item.Pos})
			call.Mut = append(call.Mut, true)
		} else {
			arg := p.parseExpression()
			if p.failed {
				return nil
			}
			call.Args = append(call.Args, arg)
			call.Mut = append(call.Mut, false)
		}

		if p.currentToken.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if _, ok := p.expect(lexer.RPAREN); !ok {
		return nil
	}

	return call
}

func (p *Parser) parseArray() ast.Expression {
	open := p.currentToken
	p.nextToken()

	arr := &ast.Array{Position: open.Pos}
	for p.currentToken.Type != lexer.RSBRACE {
		item := p.parseExpression()
		if p.failed {
			return nil
		}
		arr.Items = append(arr.Items, item)

		if p.currentToken.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if _, ok := p.expect(lexer.RSBRACE); !ok {
		return nil
	}

	return arr
}

// isObjectLiteral decides whether `{` opens an object literal rather than a block
func (p *Parser) isObjectLiteral() bool {
	next := p.peek(1)
	if next.Type == lexer.RBRACE {
		return true
	}

	return (next.Type == lexer.ID || next.Type == lexer.STRING) && p.peek(2).Type == lexer.COLON
}

func (p *Parser) parseObject() ast.Expression {
	open := p.currentToken
	p.nextToken()

	obj := &ast.Object{Position: open.Pos}
	for p.currentToken.Type != lexer.RBRACE {
		key := p.currentToken
		if key.Type != lexer.ID && key.Type != lexer.STRING {
			p.handleTerminalError(lexer.ID)
			return nil
		}
		p.nextToken()

		if _, ok := p.expect(lexer.COLON); !ok {
			return nil
		}

		value := p.parseExpression()
		if p.failed {
			return nil
		}
		obj.Keys = append(obj.Keys, key.Literal)
		obj.Values = append(obj.Values, value)

		if p.currentToken.Type != lexer.COMMA {
			break
		}
		p.nextToken()
	}

	if _, ok := p.expect(lexer.RBRACE); !ok {
		return nil
	}

	return obj
}

func (p *Parser) parseIf() ast.Expression {
	tok := p.currentToken
	p.nextToken()

	cond := p.parseExpression()
	if p.failed {
		return nil
	}

	then := p.parseBlock()
	if then == nil {
		return nil
	}

	expr := &ast.If{Cond: cond, Then: then, Position: tok.Pos}
	if p.currentToken.Type == lexer.ELSE {
		p.nextToken()
		if p.currentToken.Type == lexer.IF {
			expr.Else = p.parseIf()
		} else {
			block := p.parseBlock()
			if block == nil {
				return nil
			}
			expr.Else = block
		}
		if p.failed {
			return nil
		}
	}

	return expr
}

func isOneOf(t lexer.TokenType, set []lexer.TokenType) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}

	return false
}
