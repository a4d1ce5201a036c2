// Package expr evaluates the arithmetic expressions used by calculated
// template fields. The grammar is deliberately minimal: + - * / ( ),
// numeric literals, and variable references. Nothing here ever reaches a
// general-purpose evaluator.
package expr

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
)

// Eval parses and evaluates input against the given variables.
// Unknown variables and malformed input return an error, never a panic.
func Eval(input string, vars map[string]float64) (float64, error) {
	p := &parser{input: input, vars: vars}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return 0, fmt.Errorf("unexpected %q at position %d", p.input[p.pos], p.pos)
	}
	return v, nil
}

type parser struct {
	input string
	pos   int
	vars  map[string]float64
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

// expr = term (('+' | '-') term)*
func (p *parser) expr() (float64, error) {
	v, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v += r
		case '-':
			p.pos++
			r, err := p.term()
			if err != nil {
				return 0, err
			}
			v -= r
		default:
			return v, nil
		}
	}
}

// term = factor (('*' | '/') factor)*
func (p *parser) term() (float64, error) {
	v, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		p.skipSpace()
		switch p.peek() {
		case '*':
			p.pos++
			r, err := p.factor()
			if err != nil {
				return 0, err
			}
			v *= r
		case '/':
			p.pos++
			r, err := p.factor()
			if err != nil {
				return 0, err
			}
			if r == 0 {
				return 0, ErrDivisionByZero
			}
			v /= r
		default:
			return v, nil
		}
	}
}

// factor = number | variable | '(' expr ')' | '-' factor
func (p *parser) factor() (float64, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '(':
		p.pos++
		v, err := p.expr()
		if err != nil {
			return 0, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return 0, errors.New("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	case c == '-':
		p.pos++
		v, err := p.factor()
		if err != nil {
			return 0, err
		}
		return -v, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.number()
	case isIdentStart(rune(c)):
		return p.variable()
	default:
		return 0, fmt.Errorf("unexpected character %q at position %d", c, p.pos)
	}
}

func (p *parser) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && (p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
		p.pos++
	}
	v, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", p.input[start:p.pos])
	}
	return v, nil
}

func (p *parser) variable() (float64, error) {
	start := p.pos
	for p.pos < len(p.input) && isIdentPart(rune(p.input[p.pos])) {
		p.pos++
	}
	name := p.input[start:p.pos]
	v, ok := p.vars[name]
	if !ok {
		return 0, fmt.Errorf("unknown variable %q", name)
	}
	return v, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Names returns every variable referenced in input without evaluating it,
// so callers can validate a calculated field at save time.
func Names(input string) []string {
	seen := map[string]bool{}
	var out []string
	for i := 0; i < len(input); {
		r := rune(input[i])
		if !isIdentStart(r) {
			i++
			continue
		}
		j := i
		for j < len(input) && isIdentPart(rune(input[j])) {
			j++
		}
		name := input[i:j]
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		i = j
	}
	return out
}
