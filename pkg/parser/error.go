package parser

import (
	"fmt"

	"vesper/pkg/color"
	"vesper/pkg/lexer"
)

// handleTerminalError is called when the current token doesn't match the expected one.
// It only reports an error; recovery happens at function granularity.
func (p *Parser) handleTerminalError(expected lexer.TokenType) {
	// Specific: declaration or parameter without a name like `fn (x)` or `mut 3`
	if expected == lexer.ID && p.currentToken.Type.GetCategory() == lexer.KEYWORD {
		p.addError("Cannot use reserved keyword as identifier")
		return
	}

	if expected == lexer.LIFETIME && p.currentToken.Type == lexer.ID {
		p.addError("Missing quote before lifetime")
		return
	}

	p.addContextualError(expected)
}

// handleNonTerminalError is called when no rule can start with the current token.
func (p *Parser) handleNonTerminalError(expected string) {
	switch p.currentToken.Type {
	case lexer.RPAREN, lexer.RBRACE, lexer.RSBRACE, lexer.COMMA, lexer.SEMICOLON:
		p.addError("Missing " + expected)
	case lexer.ILLEGAL:
		p.addError(fmt.Sprintf("Illegal character '%s'", p.currentToken.Lexeme))
	default:
		p.addError(fmt.Sprintf("Unexpected token '%s', expected %s", p.currentToken.Lexeme, expected))
	}
}

// handleUnexpectedEndOfInput is called when input ends inside a definition
func (p *Parser) handleUnexpectedEndOfInput() {
	p.addError("Unexpected end of input")
}

// addError records a parsing error at the current token
func (p *Parser) addError(msg string) {
	p.addErrorAt(p.currentToken.Pos, msg)
}

// addErrorAt records a parsing error with location
func (p *Parser) addErrorAt(pos lexer.Position, msg string) {
	formatted := color.RedText(msg) + " at " + color.YellowText(fmt.Sprintf("Line: %d, Column %d", pos.Line, pos.Column))
	p.errors = append(p.errors, formatted)
	p.failed = true
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

// addContextualError generates a contextual error message based on expected and current token
func (p *Parser) addContextualError(expected lexer.TokenType) {
	p.addError(p.categorizeError(expected, p.currentToken))
}

// categorizeError provides a specific error message based on expected symbol and current token
func (p *Parser) categorizeError(expected lexer.TokenType, current lexer.Token) string {
	// Delimiters
	switch expected {
	case lexer.RPAREN:
		return "Missing closing parenthesis"
	case lexer.RBRACE:
		return "Missing closing brace"
	case lexer.RSBRACE:
		return "Missing closing bracket"
	case lexer.LBRACE:
		if current.Type == lexer.LPAREN {
			return "Wrong bracket type - expected brace"
		}
		return "Missing opening brace"
	case lexer.LPAREN:
		return "Missing opening parenthesis"
	case lexer.COLON:
		return "Missing colon"
	}

	// Identifiers and literals
	switch expected {
	case lexer.ID:
		if current.Type == lexer.STRING {
			return "Unexpected string, expected identifier"
		}
		return "Expected identifier"
	case lexer.LIFETIME:
		return "Expected lifetime"
	case lexer.FN:
		return "Expected function definition"
	}

	return fmt.Sprintf("Syntax error: expected '%s', found '%s'", expected, current.Lexeme)
}
