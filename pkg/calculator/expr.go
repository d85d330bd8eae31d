package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode"
)

var (
	// ErrParse is wrapped by every *ParseError.
	ErrParse = errors.New("calculator: parse error")
	// ErrNotFinite is returned when an expression evaluates to NaN or ±Inf.
	ErrNotFinite = errors.New("calculator: result is not finite")
)

// ParseError describes a malformed expression.
type ParseError struct {
	Pos int    // Rune offset of the offending token.
	Msg string // Human readable reason.
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("calculator: parse error at %d: %s", e.Pos, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// functions is the closed set of unary functions. Trigonometry uses radians.
var functions = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"log":  math.Log10,
	"ln":   math.Log,
	"sqrt": math.Sqrt,
}

var constants = map[string]float64{
	"pi": math.Pi,
}

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
	tokInvalid
)

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// lexer works on runes because the display uses ×, ÷, √ and π.
type lexer struct {
	s []rune
	i int
}

func (l *lexer) next() token {
	for l.i < len(l.s) && unicode.IsSpace(l.s[l.i]) {
		l.i++
	}
	if l.i >= len(l.s) {
		return token{kind: tokEOF, pos: l.i}
	}

	pos := l.i
	single := func(k tokenKind, text string) token {
		l.i++
		return token{kind: k, text: text, pos: pos}
	}

	switch ch := l.s[l.i]; ch {
	case '+':
		return single(tokPlus, "+")
	case '-', '−':
		return single(tokMinus, "-")
	case '*', '×':
		return single(tokStar, "*")
	case '/', '÷':
		return single(tokSlash, "/")
	case '^':
		return single(tokCaret, "^")
	case '(':
		return single(tokLParen, "(")
	case ')':
		return single(tokRParen, ")")
	case '√':
		return single(tokIdent, "sqrt")
	case 'π':
		return single(tokIdent, "pi")
	}

	ch := l.s[l.i]
	if isIdentRune(ch) {
		for l.i < len(l.s) && isIdentRune(l.s[l.i]) {
			l.i++
		}
		return token{kind: tokIdent, text: string(l.s[pos:l.i]), pos: pos}
	}
	if ch == '.' || isDigit(ch) {
		l.i = scanNumber(l.s, l.i)
		txt := string(l.s[pos:l.i])
		n, err := strconv.ParseFloat(txt, 64)
		if err != nil {
			return token{kind: tokInvalid, text: txt, pos: pos}
		}
		return token{kind: tokNumber, text: txt, num: n, pos: pos}
	}

	l.i++
	return token{kind: tokInvalid, text: string(ch), pos: pos}
}

// scanNumber returns the index just past the number starting at i. An
// exponent is only consumed when at least one exponent digit follows, so
// formatted results such as "1e-7" lex back to the same value.
func scanNumber(s []rune, i int) int {
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentRune(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

// node is an evaluable expression tree node.
type node interface {
	eval() float64
}

type nodeNumber struct{ v float64 }

func (n nodeNumber) eval() float64 { return n.v }

type nodeNeg struct{ x node }

func (n nodeNeg) eval() float64 { return -n.x.eval() }

type nodeBinary struct {
	op          tokenKind
	left, right node
}

func (n nodeBinary) eval() float64 {
	a, b := n.left.eval(), n.right.eval()
	switch n.op {
	case tokPlus:
		return a + b
	case tokMinus:
		return a - b
	case tokStar:
		return a * b
	case tokSlash:
		return a / b
	case tokCaret:
		return math.Pow(a, b)
	}
	return math.NaN()
}

type nodeCall struct {
	fn  func(float64) float64
	arg node
}

func (n nodeCall) eval() float64 { return n.fn(n.arg.eval()) }

type parser struct {
	l   lexer
	cur token
}

func (p *parser) next() { p.cur = p.l.next() }

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.cur.pos, Msg: fmt.Sprintf(format, args...)}
}

// Parse checks src against the calculator grammar without evaluating it.
//
//	expr    := term (('+'|'-') term)*
//	term    := unary (('*'|'/') unary)*
//	unary   := ('+'|'-') unary | power
//	power   := primary ('^' unary)?
//	primary := number | 'pi' | func '(' expr ')' | '(' expr ')'
//
// '^' is right-associative and binds tighter than unary minus, so -2^2 is -4
// and 2^3^2 is 512.
func Parse(src string) error {
	_, err := parse(src)
	return err
}

func parse(src string) (node, error) {
	p := &parser{l: lexer{s: []rune(src)}}
	p.next()

	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.cur.text)
	}
	return n, nil
}

func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokPlus || p.cur.kind == tokMinus {
		op := p.cur.kind
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseTerm() (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tokStar || p.cur.kind == tokSlash {
		op := p.cur.kind
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = nodeBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	switch p.cur.kind {
	case tokMinus:
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return nodeNeg{x: x}, nil
	case tokPlus:
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokCaret {
		return base, nil
	}
	p.next()
	exp, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return nodeBinary{op: tokCaret, left: base, right: exp}, nil
}

func (p *parser) parsePrimary() (node, error) {
	switch p.cur.kind {
	case tokNumber:
		v := p.cur.num
		p.next()
		return nodeNumber{v: v}, nil
	case tokIdent:
		name := p.cur.text
		if v, ok := constants[name]; ok {
			p.next()
			return nodeNumber{v: v}, nil
		}
		fn, ok := functions[name]
		if !ok {
			return nil, p.errorf("unknown identifier %q", name)
		}
		p.next()
		if p.cur.kind != tokLParen {
			return nil, p.errorf("expected '(' after %s", name)
		}
		arg, err := p.parseParenthesized()
		if err != nil {
			return nil, err
		}
		return nodeCall{fn: fn, arg: arg}, nil
	case tokLParen:
		return p.parseParenthesized()
	case tokEOF:
		return nil, p.errorf("unexpected end of expression")
	default:
		return nil, p.errorf("unexpected %q", p.cur.text)
	}
}

// parseParenthesized consumes '(' expr ')'.
func (p *parser) parseParenthesized() (node, error) {
	p.next()
	ex, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokRParen {
		return nil, p.errorf("expected ')'")
	}
	p.next()
	return ex, nil
}

// Eval parses and evaluates src. Only numbers, + - * / ^, parentheses, the
// functions sin cos tan log ln sqrt (√) and the constant π are accepted; any
// other token is a *ParseError. A NaN or infinite result yields ErrNotFinite.
func Eval(src string) (float64, error) {
	n, err := parse(src)
	if err != nil {
		return 0, err
	}

	v := n.eval()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotFinite, src)
	}
	return v, nil
}
