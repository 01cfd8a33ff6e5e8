// Package parser hand-rolls a recursive-descent/precedence-climbing parser
// for the WHILE surface grammar described in spec.md §3 and confirmed
// against original_source/syntax/while_lang.py's Earley grammar. It is the
// one external-collaborator role spec.md §1 calls out explicitly; it is
// implemented in-tree here only so the repository is runnable end-to-end,
// and it never feeds anything back into internal/wp or internal/eval
// beyond the AST itself.
package parser

import (
	"github.com/lhaig/whileverify/internal/ast"
	"github.com/lhaig/whileverify/internal/diagnostic"
	"github.com/lhaig/whileverify/internal/lexer"
)

// Parser holds parser state over a pre-scanned token stream.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// New creates a parser over source.
func New(source string) *Parser {
	l := lexer.New(source)
	return &Parser{tokens: l.Tokenize(), diags: diagnostic.New()}
}

// Diagnostics returns the parser's accumulated errors.
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse parses a full program: a command sequence followed by EOF. On
// error, it returns a best-effort partial command; callers must check
// Diagnostics().HasErrors() before trusting the result.
func (p *Parser) Parse() ast.Command {
	cmd := p.parseSeq()
	if !p.check(lexer.EOF) {
		tok := p.current()
		p.diags.Errorf(tok.Line, tok.Column, "unexpected token %s after program", tok.Type)
	}
	return cmd
}

// ParseExpr parses a single standalone expression (used for precondition,
// postcondition, and invariant text in problem files).
func (p *Parser) ParseExpr() ast.Expr {
	e := p.parseOr()
	if !p.check(lexer.EOF) {
		tok := p.current()
		p.diags.Errorf(tok.Line, tok.Column, "unexpected token %s after expression", tok.Type)
	}
	return e
}

// --- token helpers ---

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.check(tt) {
		return p.advance()
	}
	tok := p.current()
	p.diags.Errorf(tok.Line, tok.Column, "expected %s, got %s", tt, tok.Type)
	return tok
}

// --- commands ---

// parseSeq parses `S1 (';' S)?`, right-associative.
func (p *Parser) parseSeq() ast.Command {
	first := p.parseStmt()
	if p.check(lexer.SEMICOLON) {
		p.advance()
		second := p.parseSeq()
		return &ast.Seq{First: first, Second: second}
	}
	return first
}

// parseStmt parses a single command unit (S1): not itself a bare sequence
// unless parenthesized, matching the grammar's S1 -> '(' S ')' form.
func (p *Parser) parseStmt() ast.Command {
	tok := p.current()

	switch tok.Type {
	case lexer.SKIP:
		p.advance()
		return &ast.Skip{}

	case lexer.ASSERT:
		p.advance()
		cond := p.parseOr()
		return &ast.Assert{Cond: cond}

	case lexer.IF:
		p.advance()
		cond := p.parseOr()
		p.expect(lexer.THEN)
		then := p.parseSeq()
		p.expect(lexer.ELSE)
		els := p.parseStmt()
		return &ast.If{Cond: cond, Then: then, Else: els}

	case lexer.WHILE:
		p.advance()
		cond := p.parseOr()
		p.expect(lexer.DO)
		body := p.parseStmt()
		return &ast.While{Cond: cond, Body: body}

	case lexer.LPAREN:
		p.advance()
		inner := p.parseSeq()
		p.expect(lexer.RPAREN)
		return inner

	case lexer.IDENT:
		name := p.advance()
		if p.check(lexer.LBRACKET) {
			p.advance()
			idx := p.parseOr()
			p.expect(lexer.RBRACKET)
			p.expect(lexer.ASSIGN)
			val := p.parseOr()
			return &ast.ArrayAssign{Array: name.Literal, Index: idx, Value: val}
		}
		p.expect(lexer.ASSIGN)
		val := p.parseOr()
		return &ast.Assign{Name: name.Literal, Value: val}

	default:
		p.diags.Errorf(tok.Line, tok.Column, "unexpected token %s at start of statement", tok.Type)
		p.advance()
		return &ast.Skip{}
	}
}

// --- expressions, precedence low to high: or, and, not, relational,
// additive, multiplicative, unary minus, primary ---

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(lexer.OR) {
		p.advance()
		right := p.parseAnd()
		left = &ast.Binary{Op: ast.Or, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseNot()
	for p.check(lexer.AND) {
		p.advance()
		right := p.parseNot()
		left = &ast.Binary{Op: ast.And, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseNot() ast.Expr {
	if p.check(lexer.NOT) {
		tok := p.advance()
		operand := p.parseNot()
		return ast.NewNot(tok.Line, tok.Column, operand)
	}
	return p.parseRel()
}

func (p *Parser) parseRel() ast.Expr {
	left := p.parseArith()
	if op, ok := relOp(p.current().Type); ok {
		p.advance()
		right := p.parseArith()
		return &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func relOp(tt lexer.TokenType) (ast.BinOp, bool) {
	switch tt {
	case lexer.EQ:
		return ast.Eq, true
	case lexer.NEQ:
		return ast.Neq, true
	case lexer.LT:
		return ast.Lt, true
	case lexer.LEQ:
		return ast.Leq, true
	case lexer.GT:
		return ast.Gt, true
	case lexer.GEQ:
		return ast.Geq, true
	default:
		return 0, false
	}
}

func (p *Parser) parseArith() ast.Expr {
	left := p.parseTerm()
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		op := ast.Add
		if p.current().Type == lexer.MINUS {
			op = ast.Sub
		}
		p.advance()
		right := p.parseTerm()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expr {
	left := p.parseUnary()
	for p.check(lexer.STAR) || p.check(lexer.SLASH) || p.check(lexer.MOD) {
		var op ast.BinOp
		switch p.current().Type {
		case lexer.STAR:
			op = ast.Mul
		case lexer.SLASH:
			op = ast.Div
		default:
			op = ast.Mod
		}
		p.advance()
		right := p.parseUnary()
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.MINUS) {
		tok := p.advance()
		operand := p.parseUnary()
		return &ast.Binary{Op: ast.Sub, Left: ast.NewIntLit(tok.Line, tok.Column, 0), Right: operand}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current()

	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return ast.NewIntLit(tok.Line, tok.Column, parseInt(tok.Literal))

	case lexer.TRUE:
		p.advance()
		return ast.NewBoolLit(tok.Line, tok.Column, true)

	case lexer.FALSE:
		p.advance()
		return ast.NewBoolLit(tok.Line, tok.Column, false)

	case lexer.HOLE:
		p.advance()
		return ast.NewHole(tok.Line, tok.Column)

	case lexer.IDENT:
		p.advance()
		if p.check(lexer.LBRACKET) {
			p.advance()
			idx := p.parseOr()
			p.expect(lexer.RBRACKET)
			return ast.NewArraySelect(tok.Line, tok.Column, tok.Literal, idx)
		}
		return ast.NewVarRef(tok.Line, tok.Column, tok.Literal)

	case lexer.LPAREN:
		p.advance()
		inner := p.parseOr()
		p.expect(lexer.RPAREN)
		return inner

	default:
		p.diags.Errorf(tok.Line, tok.Column, "unexpected token %s in expression", tok.Type)
		p.advance()
		return ast.NewIntLit(tok.Line, tok.Column, 0)
	}
}

func parseInt(lit string) int64 {
	var v int64
	for _, c := range lit {
		v = v*10 + int64(c-'0')
	}
	return v
}
