package types

import (
	"fmt"
	"strconv"
	"strings"
)

type Position struct {
	Line   int
	Column int
}

type TokenKind int

const (
	EOF TokenKind = iota

	COMMA
	LPAREN
	RPAREN
	SEMICOLON
	COLON
	LBRACE
	RBRACE
	ASSIGN

	DEF
	EXTERN
	VAR
	STRUCT

	IF
	THEN
	ELSE
	RETURN
	FOR
	WHILE

	IDENT
	LITERAL
	OPERATOR
	LOGICAL
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:       "EOF",
		COMMA:     "COMMA",
		LPAREN:    "LPAREN",
		RPAREN:    "RPAREN",
		SEMICOLON: "SEMICOLON",
		COLON:     "COLON",
		LBRACE:    "LBRACE",
		RBRACE:    "RBRACE",
		ASSIGN:    "ASSIGN",
		DEF:       "DEF",
		EXTERN:    "EXTERN",
		VAR:       "VAR",
		STRUCT:    "STRUCT",
		IF:        "IF",
		THEN:      "THEN",
		ELSE:      "ELSE",
		RETURN:    "RETURN",
		FOR:       "FOR",
		WHILE:     "WHILE",
		IDENT:     "IDENT",
		LITERAL:   "LITERAL",
		OPERATOR:  "OPERATOR",
		LOGICAL:   "LOGICAL",
	}
	return data[t]
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]TokenKind{
	"def":    DEF,
	"extern": EXTERN,
	"if":     IF,
	"then":   THEN,
	"else":   ELSE,
	"return": RETURN,
	"var":    VAR,
	"for":    FOR,
	"while":  WHILE,
	"struct": STRUCT,
}

type BinaryOperator rune

const (
	Plus   BinaryOperator = '+'
	Minus  BinaryOperator = '-'
	Times  BinaryOperator = '*'
	Divide BinaryOperator = '/'
	Mod    BinaryOperator = '%'
)

func (b BinaryOperator) String() string {
	return string(b)
}

type LogicalOperator string

const (
	And                LogicalOperator = "&&"
	Or                 LogicalOperator = "||"
	Equals             LogicalOperator = "=="
	NotEqual           LogicalOperator = "!="
	LessThan           LogicalOperator = "<"
	LessThanOrEqual    LogicalOperator = "<="
	GreaterThan        LogicalOperator = ">"
	GreaterThanOrEqual LogicalOperator = ">="
)

func (l LogicalOperator) String() string {
	return string(l)
}

// IsComparison reports whether l orders or equates its operands rather than
// combining truth values.
func (l LogicalOperator) IsComparison() bool {
	return l != And && l != Or
}

type Literal interface {
	is_Literal()
	fmt.Stringer
}

type IntLiteral int64

func (v IntLiteral) is_Literal() {}
func (v IntLiteral) String() string {
	return strconv.FormatInt(int64(v), 10)
}

type FloatLiteral float32

func (v FloatLiteral) is_Literal() {}
func (v FloatLiteral) String() string {
	return strconv.FormatFloat(float64(v), 'f', -1, 32) + "f"
}

type DoubleLiteral float64

func (v DoubleLiteral) is_Literal() {}
func (v DoubleLiteral) String() string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 64)
	if strings.ContainsAny(s, ".IN") {
		return s
	}
	return s + ".0"
}

type StringLiteral string

func (v StringLiteral) is_Literal() {}
func (v StringLiteral) String() string {
	return strconv.Quote(string(v))
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a lexed token. Value carries the payload of IDENT (string),
// LITERAL (Literal), OPERATOR (BinaryOperator) and LOGICAL (LogicalOperator)
// tokens and is nil otherwise.
type Token struct {
	Kind  TokenKind
	Value interface{}
	Pos   Position
}

// Is reports whether t has kind k.
func (t Token) Is(k TokenKind) bool {
	return t.Kind == k
}

// Text renders the token the way it would appear in source.
func (t Token) Text() string {
	switch t.Kind {
	case IDENT:
		return t.Value.(string)
	case LITERAL:
		return t.Value.(Literal).String()
	case OPERATOR:
		return t.Value.(BinaryOperator).String()
	case LOGICAL:
		return t.Value.(LogicalOperator).String()
	}

	punct := map[TokenKind]string{
		COMMA:     ",",
		LPAREN:    "(",
		RPAREN:    ")",
		SEMICOLON: ";",
		COLON:     ":",
		LBRACE:    "{",
		RBRACE:    "}",
		ASSIGN:    "=",
	}
	if s, ok := punct[t.Kind]; ok {
		return s
	}
	for word, kind := range Keywords {
		if kind == t.Kind {
			return word
		}
	}
	return ""
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, LITERAL, OPERATOR, LOGICAL:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text())
	}
	return t.Kind.String()
}
