package parser

import (
	"strings"

	"github.com/pontaoski/kaleidago/ast"
	"github.com/pontaoski/kaleidago/errors"
	"github.com/pontaoski/kaleidago/types"
)

type Parser struct {
	tokens []types.Token
	index  int
	file   *ast.File
}

func NewParser(tokens []types.Token) *Parser {
	return &Parser{tokens: tokens, file: ast.NewFile()}
}

// Parse builds a File out of tokens, stopping at the first error.
func Parse(tokens []types.Token) (*ast.File, error) {
	return NewParser(tokens).Parse()
}

func (p *Parser) peek() (types.Token, bool) {
	if p.index < len(p.tokens) {
		return p.tokens[p.index], true
	}
	return types.Token{}, false
}

func (p *Parser) advance() {
	p.index++
}

func (p *Parser) PeekIs(k ...types.TokenKind) bool {
	tok, ok := p.peek()
	if !ok {
		return false
	}
	for _, kind := range k {
		if tok.Kind == kind {
			return true
		}
	}
	return false
}

func (p *Parser) consume(k types.TokenKind) (types.Token, error) {
	tok, ok := p.peek()
	if !ok {
		return types.Token{}, errors.UnexpectedEOF{}
	}
	if tok.Kind != k {
		return types.Token{}, errors.UnexpectedToken{Token: tok}
	}
	p.advance()
	return tok, nil
}

func (p *Parser) Parse() (*ast.File, error) {
	for {
		tok, ok := p.peek()
		if !ok {
			return p.file, nil
		}

		switch tok.Kind {
		case types.STRUCT:
			t, err := p.parseStruct()
			if err != nil {
				return nil, err
			}
			p.file.AddType(t)
		case types.EXTERN:
			proto, err := p.parseExtern()
			if err != nil {
				return nil, err
			}
			p.file.AddExtern(proto)
		case types.DEF:
			def, err := p.parseDefinition()
			if err != nil {
				return nil, err
			}
			p.file.AddDefinition(def)
		case types.SEMICOLON:
			p.advance()
		default:
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			p.file.AddExpression(expr)
		}
	}
}

func (p *Parser) parseIdentifier() (string, error) {
	tok, err := p.consume(types.IDENT)
	if err != nil {
		return "", err
	}
	return tok.Value.(string), nil
}

func (p *Parser) parseType() (ast.StoredType, error) {
	tok, err := p.consume(types.IDENT)
	if err != nil {
		return ast.StoredType{}, err
	}
	name := tok.Value.(string)

	st, ok := ast.ResolveType(name)
	if !ok {
		return ast.StoredType{}, errors.UndefinedType{Name: name, Location: tok.Pos}
	}
	return st, nil
}

// parseParameter parses `name : Type`.
func (p *Parser) parseParameter() (ast.VariableDefinition, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.VariableDefinition{}, err
	}
	if _, err := p.consume(types.COLON); err != nil {
		return ast.VariableDefinition{}, err
	}
	st, err := p.parseType()
	if err != nil {
		return ast.VariableDefinition{}, err
	}
	return ast.VariableDefinition{Name: name, Type: st}, nil
}

// parseVariableDefinition parses `var name : Type`.
func (p *Parser) parseVariableDefinition() (ast.VariableDefinition, error) {
	if _, err := p.consume(types.VAR); err != nil {
		return ast.VariableDefinition{}, err
	}
	return p.parseParameter()
}

// parseCommaSeparated parses `( item, item, ... )`, calling each once per item.
func (p *Parser) parseCommaSeparated(each func() error) error {
	if _, err := p.consume(types.LPAREN); err != nil {
		return err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.Kind == types.RPAREN {
			break
		}
		if err := each(); err != nil {
			return err
		}
		if p.PeekIs(types.COMMA) {
			p.advance()
		}
	}
	_, err := p.consume(types.RPAREN)
	return err
}

// parseBlock parses `{ stmt... }`; semicolons between statements are skipped.
func (p *Parser) parseBlock() ([]ast.Expr, error) {
	if _, err := p.consume(types.LBRACE); err != nil {
		return nil, err
	}

	var statements []ast.Expr
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, errors.UnexpectedEOF{}
		}
		if tok.Kind == types.RBRACE {
			p.advance()
			return statements, nil
		}
		if tok.Kind == types.SEMICOLON {
			p.advance()
			continue
		}

		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		statements = append(statements, expr)
	}
}

func (p *Parser) parsePrototype() (ast.Prototype, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.Prototype{}, err
	}

	var params []ast.VariableDefinition
	err = p.parseCommaSeparated(func() error {
		param, err := p.parseParameter()
		if err != nil {
			return err
		}
		params = append(params, param)
		return nil
	})
	if err != nil {
		return ast.Prototype{}, err
	}

	returnType := ast.VoidType
	if !p.PeekIs(types.LBRACE, types.SEMICOLON) {
		returnType, err = p.parseType()
		if err != nil {
			return ast.Prototype{}, err
		}
	}

	return ast.Prototype{Name: name, Params: params, ReturnType: returnType}, nil
}

func (p *Parser) parseExtern() (ast.Prototype, error) {
	if _, err := p.consume(types.EXTERN); err != nil {
		return ast.Prototype{}, err
	}
	proto, err := p.parsePrototype()
	if err != nil {
		return ast.Prototype{}, err
	}
	if _, err := p.consume(types.SEMICOLON); err != nil {
		return ast.Prototype{}, err
	}
	return proto, nil
}

func (p *Parser) parseDefinition() (ast.Definition, error) {
	if _, err := p.consume(types.DEF); err != nil {
		return ast.Definition{}, err
	}
	proto, err := p.parsePrototype()
	if err != nil {
		return ast.Definition{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Definition{}, err
	}
	return ast.Definition{Prototype: proto, Body: body}, nil
}

// parseStruct parses `struct Name { field: Type ... }`. Fields may be
// prefixed with `var` and separated by commas or semicolons.
func (p *Parser) parseStruct() (ast.TypeDefinition, error) {
	if _, err := p.consume(types.STRUCT); err != nil {
		return ast.TypeDefinition{}, err
	}
	name, err := p.parseIdentifier()
	if err != nil {
		return ast.TypeDefinition{}, err
	}
	if _, err := p.consume(types.LBRACE); err != nil {
		return ast.TypeDefinition{}, err
	}

	var properties []ast.VariableDefinition
	for !p.PeekIs(types.RBRACE) {
		if p.PeekIs(types.COMMA, types.SEMICOLON, types.VAR) {
			p.advance()
			continue
		}
		prop, err := p.parseParameter()
		if err != nil {
			return ast.TypeDefinition{}, err
		}
		properties = append(properties, prop)
	}
	if len(properties) == 0 {
		tok, _ := p.peek()
		return ast.TypeDefinition{}, errors.UnexpectedToken{Token: tok}
	}
	p.advance()

	return ast.TypeDefinition{Name: name, Properties: properties}, nil
}

// reference turns an identifier into a variable reference. Dotted names
// become field dereferences, left to right.
func reference(tok types.Token) (ast.Expr, error) {
	parts := strings.Split(tok.Value.(string), ".")
	for _, part := range parts {
		if part == "" {
			return nil, errors.UnexpectedToken{Token: tok}
		}
	}

	var expr ast.Expr = ast.Variable{Name: parts[0]}
	for _, member := range parts[1:] {
		expr = ast.FieldDereference{Base: expr, Field: ast.Variable{Name: member}}
	}
	return expr, nil
}

func literalType(e ast.Expr) (ast.StoredType, bool) {
	lit, ok := e.(ast.Literal)
	if !ok {
		return ast.StoredType{}, false
	}
	switch lit.Value.(type) {
	case types.IntLiteral:
		return ast.IntType, true
	case types.FloatLiteral:
		return ast.FloatType, true
	case types.DoubleLiteral:
		return ast.DoubleType, true
	case types.StringLiteral:
		return ast.StringType, true
	}
	return ast.StoredType{}, false
}

func (p *Parser) parseIf() (ast.Expr, error) {
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBlock []ast.Expr
	if p.PeekIs(types.ELSE) {
		p.advance()
		elseBlock, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return ast.IfElse{Cond: cond, Then: then, Else: elseBlock}, nil
}

// parseFor parses `for ( init ; cond ; post ) { body }`. The post expression
// is appended to the body so it runs after every iteration.
func (p *Parser) parseFor() (ast.Expr, error) {
	p.advance()
	if _, err := p.consume(types.LPAREN); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(types.SEMICOLON); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(types.SEMICOLON); err != nil {
		return nil, err
	}
	post, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(types.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	return ast.For{Init: init, Cond: cond, Body: append(body, post)}, nil
}

func (p *Parser) parseWhile() (ast.Expr, error) {
	p.advance()
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.While{Cond: cond, Body: body}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errors.UnexpectedEOF{}
	}

	switch tok.Kind {
	case types.LPAREN:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(types.RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	case types.LITERAL:
		p.advance()
		return ast.Literal{Value: tok.Value.(types.Literal)}, nil
	case types.VAR:
		def, err := p.parseVariableDefinition()
		if err != nil {
			return nil, err
		}
		return ast.Define{Definition: def}, nil
	case types.IDENT:
		p.advance()
		if !p.PeekIs(types.LPAREN) {
			return reference(tok)
		}

		var args []ast.Expr
		err := p.parseCommaSeparated(func() error {
			arg, err := p.parseExpr()
			if err != nil {
				return err
			}
			args = append(args, arg)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return ast.Call{Name: tok.Value.(string), Args: args}, nil
	case types.IF:
		return p.parseIf()
	case types.RETURN:
		p.advance()
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return ast.Return{Value: value}, nil
	case types.FOR:
		return p.parseFor()
	case types.WHILE:
		return p.parseWhile()
	}

	return nil, errors.UnexpectedToken{Token: tok}
}

// parseExpr parses a primary expression and then attaches at most one
// arithmetic operator, one logical operator and one assignment, in that
// order. Each right-hand side is a full expression, so chains group to the
// right: `1 * 2 + 3` is `1 * (2 + 3)`.
func (p *Parser) parseExpr() (ast.Expr, error) {
	start, _ := p.peek()

	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok && tok.Kind == types.OPERATOR {
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{LHS: expr, Op: tok.Value.(types.BinaryOperator), RHS: rhs}
	}

	if tok, ok := p.peek(); ok && tok.Kind == types.LOGICAL {
		p.advance()
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		op := tok.Value.(types.LogicalOperator)
		if op.IsComparison() {
			left, lok := literalType(expr)
			right, rok := literalType(rhs)
			if lok && rok && left != right {
				return nil, errors.InvalidComparison{Left: left, Right: right, Location: tok.Pos}
			}
		}
		expr = ast.Logical{LHS: expr, Op: op, RHS: rhs}
	}

	if p.PeekIs(types.ASSIGN) {
		p.advance()
		variable, ok := expr.(ast.Variable)
		if !ok {
			return nil, errors.UnableToAssignTo{Expr: expr, Location: start.Pos}
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		expr = ast.Assignment{Name: variable.Name, Value: rhs}
	}

	return expr, nil
}
