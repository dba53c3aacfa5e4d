package mapify

import (
	"fmt"
	"strings"
)

// parseFilter parses the textual filter grammar:
//
//	expr      := and ( '|' and )*
//	and       := term ( ',' term )*
//	term      := '(' expr ')' | condition
//	condition := field operator value [ '/i' ]
//
// An empty (or blank) input yields a nil node, which means no restriction.
func parseFilter(input string) (tNode, error) {
	p := &filterParser{input: input}

	p.skipBlanks()
	if p.eof() {
		return nil, nil
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	p.skipBlanks()
	if !p.eof() {
		return nil, p.errorf(p.pos, "unexpected '%c'", p.peek())
	}

	return node, nil
}

type filterParser struct {
	input string
	pos   int
}

func (p *filterParser) parseOr() (tNode, error) {
	return p.parseJunction(junctionOr, '|', p.parseAnd)
}

func (p *filterParser) parseAnd() (tNode, error) {
	return p.parseJunction(junctionAnd, ',', p.parseTerm)
}

func (p *filterParser) parseJunction(junction tJunction, separator byte, next func() (tNode, error)) (tNode, error) {
	first, err := next()
	if err != nil {
		return nil, err
	}

	nodes := []tNode{first}
	for {
		p.skipBlanks()
		if p.eof() || p.peek() != separator {
			break
		}
		p.pos++

		node, err := next()
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, node)
	}

	if len(nodes) == 1 {
		return first, nil
	}

	return tGroup{Junction: junction, Nodes: nodes}, nil
}

func (p *filterParser) parseTerm() (tNode, error) {
	p.skipBlanks()
	if p.eof() {
		return nil, p.errorf(p.pos, "expected condition")
	}

	if p.peek() != '(' {
		return p.parseCondition()
	}

	open := p.pos
	p.pos++

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	p.skipBlanks()
	if p.eof() || p.peek() != ')' {
		return nil, p.errorf(open, "unbalanced '('")
	}
	p.pos++

	return node, nil
}

func (p *filterParser) parseCondition() (tNode, error) {
	start := p.pos
	for !p.eof() && isFieldSymbol(p.peek()) {
		p.pos++
	}

	field := p.input[start:p.pos]
	if field == "" {
		return nil, p.errorf(start, "expected field name")
	}

	p.skipBlanks()
	op, ok := p.parseOperator()
	if !ok {
		return nil, p.errorf(p.pos, "expected operator after field '%s'", field)
	}

	p.skipBlanks()
	value, escaped, caseInsensitive, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	return tCondition{
		Field:           field,
		Operator:        op,
		Value:           value,
		Null:            value == "" || (!escaped && strings.EqualFold(value, "null")),
		CaseInsensitive: caseInsensitive,
	}, nil
}

func (p *filterParser) parseOperator() (Operator, bool) {
	rest := p.input[p.pos:]
	for _, op := range _operators {
		if !strings.HasPrefix(rest, string(op)) {
			continue
		}
		p.pos += len(op)

		// "==" is accepted as an equality for compatibility with
		// expression-style filters ("Id == 5").
		if op == OperatorEq && !p.eof() && p.peek() == '=' {
			p.pos++
		}

		return op, true
	}

	return "", false
}

// parseValue reads a value up to the next unescaped ',', '|' or ')'.
// Surrounding blanks are dropped unless escaped.
func (p *filterParser) parseValue() (value string, escaped, caseInsensitive bool, err error) {
	var (
		buf  []byte
		keep int
	)

	for !p.eof() {
		ch := p.peek()
		switch {
		case ch == ',' || ch == '|' || ch == ')':
			return string(buf[:keep]), escaped, caseInsensitive, nil
		case ch == '\\':
			if p.pos+1 >= len(p.input) {
				return "", false, false, p.errorf(p.pos, "dangling escape")
			}
			buf = append(buf, p.input[p.pos+1])
			keep = len(buf)
			escaped = true
			p.pos += 2
		case ch == '/' && p.isCaseInsensitiveSuffix():
			caseInsensitive = true
			p.pos += 2
		case ch == ' ' || ch == '\t':
			buf = append(buf, ch)
			p.pos++
		default:
			buf = append(buf, ch)
			keep = len(buf)
			p.pos++
		}
	}

	return string(buf[:keep]), escaped, caseInsensitive, nil
}

// isCaseInsensitiveSuffix reports whether the parser stands on "/i" followed
// only by blanks up to the end of the value.
func (p *filterParser) isCaseInsensitiveSuffix() bool {
	if p.pos+1 >= len(p.input) || p.input[p.pos+1] != 'i' {
		return false
	}

	for i := p.pos + 2; i < len(p.input); i++ {
		switch p.input[i] {
		case ' ', '\t':
			continue
		case ',', '|', ')':
			return true
		default:
			return false
		}
	}

	return true
}

func (p *filterParser) skipBlanks() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t' || p.peek() == '\n' || p.peek() == '\r') {
		p.pos++
	}
}

func (p *filterParser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *filterParser) peek() byte {
	return p.input[p.pos]
}

func (p *filterParser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{
		Input:   p.input,
		Offset:  offset,
		Message: fmt.Sprintf(format, args...),
	}
}

func isFieldSymbol(ch byte) bool {
	return ch == '_' || ch == '.' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
