package lexer

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/pontaoski/kaleidago/types"
)

// Lexer scans a whole source buffer into tokens. It never fails: input it
// cannot make sense of ends the token stream.
type Lexer struct {
	input []byte
	index int
	pos   types.Position

	start    int
	startPos types.Position
}

func NewLexer(input string) *Lexer {
	return &Lexer{
		input: []byte(input),
		pos:   types.Position{Line: 1, Column: 1},
	}
}

// Tokenize is shorthand for NewLexer(input).Lex().
func Tokenize(input string) []types.Token {
	return NewLexer(input).Lex()
}

var singleChar = map[byte]types.Token{
	',': {Kind: types.COMMA},
	'(': {Kind: types.LPAREN},
	')': {Kind: types.RPAREN},
	';': {Kind: types.SEMICOLON},
	':': {Kind: types.COLON},
	'{': {Kind: types.LBRACE},
	'}': {Kind: types.RBRACE},
	'=': {Kind: types.ASSIGN},
	'+': {Kind: types.OPERATOR, Value: types.Plus},
	'-': {Kind: types.OPERATOR, Value: types.Minus},
	'*': {Kind: types.OPERATOR, Value: types.Times},
	'/': {Kind: types.OPERATOR, Value: types.Divide},
	'%': {Kind: types.OPERATOR, Value: types.Mod},
	'<': {Kind: types.LOGICAL, Value: types.LessThan},
	'>': {Kind: types.LOGICAL, Value: types.GreaterThan},
}

var multiChar = map[byte]types.LogicalOperator{
	'&': types.And,
	'|': types.Or,
	'=': types.Equals,
	'<': types.LessThanOrEqual,
	'>': types.GreaterThanOrEqual,
	'!': types.NotEqual,
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func (l *Lexer) current() (byte, bool) {
	if l.index >= len(l.input) {
		return 0, false
	}
	return l.input[l.index], true
}

func (l *Lexer) advance() {
	if l.input[l.index] == '\n' {
		l.pos.Line++
		l.pos.Column = 0
	}
	l.index++
	l.pos.Column++
}

func (l *Lexer) restart() {
	l.index = l.start
	l.pos = l.startPos
}

// stripComments deletes every "//" up to (not including) the end of its line.
func (l *Lexer) stripComments() {
	for {
		at := bytes.Index(l.input, []byte("//"))
		if at < 0 {
			return
		}
		end := bytes.IndexByte(l.input[at:], '\n')
		if end < 0 {
			l.input = l.input[:at]
			return
		}
		l.input = append(l.input[:at], l.input[at+end:]...)
	}
}

func (l *Lexer) kinded(t types.Token) types.Token {
	t.Pos = l.startPos
	return t
}

func (l *Lexer) consumeRest(op types.LogicalOperator) (types.Token, bool) {
	expected := string(op)
	l.advance()
	for i := 1; i < len(expected); i++ {
		c, ok := l.current()
		if !ok || c != expected[i] {
			l.restart()
			return types.Token{}, false
		}
		l.advance()
	}
	return l.kinded(types.Token{Kind: types.LOGICAL, Value: op}), true
}

func (l *Lexer) readIdentifierOrNumber() string {
	var sb strings.Builder
	for {
		c, ok := l.current()
		if !ok || !(isAlnum(c) || c == '.') {
			return sb.String()
		}
		sb.WriteByte(c)
		l.advance()
	}
}

func classify(str string) types.Token {
	if isDigit(str[0]) {
		if i, err := strconv.ParseInt(str, 10, 64); err == nil {
			return types.Token{Kind: types.LITERAL, Value: types.IntLiteral(i)}
		}
		if strings.HasSuffix(str, "f") {
			if f, err := strconv.ParseFloat(strings.TrimSuffix(str, "f"), 32); err == nil {
				return types.Token{Kind: types.LITERAL, Value: types.FloatLiteral(f)}
			}
		}
		if d, err := strconv.ParseFloat(str, 64); err == nil {
			return types.Token{Kind: types.LITERAL, Value: types.DoubleLiteral(d)}
		}
	}

	if kind, ok := types.Keywords[str]; ok {
		return types.Token{Kind: kind}
	}

	return types.Token{Kind: types.IDENT, Value: str}
}

func (l *Lexer) lexString() (types.Token, bool) {
	var sb strings.Builder
	l.advance()

	for {
		c, ok := l.current()
		if !ok {
			return types.Token{}, false
		}
		l.advance()

		switch c {
		case '"':
			return l.kinded(types.Token{Kind: types.LITERAL, Value: types.StringLiteral(sb.String())}), true
		case '\\':
			esc, ok := l.current()
			if !ok {
				return types.Token{}, false
			}
			l.advance()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(esc)
			}
		default:
			sb.WriteByte(c)
		}
	}
}

// Next scans one token. It returns false once the input is exhausted or the
// next character cannot start a token.
func (l *Lexer) Next() (types.Token, bool) {
	for {
		c, ok := l.current()
		if !ok || !isSpace(c) {
			break
		}
		l.advance()
	}

	c, ok := l.current()
	if !ok {
		return types.Token{}, false
	}

	l.start = l.index
	l.startPos = l.pos

	if op, ok := multiChar[c]; ok {
		if tok, ok := l.consumeRest(op); ok {
			return tok, true
		}
	}

	if tok, ok := singleChar[c]; ok {
		l.advance()
		return l.kinded(tok), true
	}

	switch {
	case c == '"':
		return l.lexString()
	case isAlnum(c):
		return l.kinded(classify(l.readIdentifierOrNumber())), true
	}

	return types.Token{}, false
}

// Lex strips comments and scans the whole buffer.
func (l *Lexer) Lex() (ret []types.Token) {
	l.stripComments()
	l.index = 0
	l.pos = types.Position{Line: 1, Column: 1}

	for {
		tok, ok := l.Next()
		if !ok {
			return
		}
		ret = append(ret, tok)
	}
}
