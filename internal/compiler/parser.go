// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package compiler

import (
	"fmt"

	"go.e43.eu/xdrschema/internal/decl"
	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/internal/token"
)

type defKind uint8

const (
	defTypedef defKind = iota
	defEnum
	defStruct
	defUnion
)

func (k defKind) String() string {
	switch k {
	case defEnum:
		return "enum"
	case defStruct:
		return "struct"
	case defUnion:
		return "union"
	default:
		return "typedef"
	}
}

// definition is a parsed but not yet resolved type definition
type definition struct {
	kind  defKind
	name  string
	line  int
	order int

	members []enumMember  // enum
	fields  []*member     // struct
	disc    []token.Token // union
	cases   []*unionCase  // union
	decl    []token.Token // typedef
}

// member is a struct field or union arm body. An anonymous struct or union
// body written inline is held in inline until it is lifted to the top level.
type member struct {
	toks   []token.Token
	inline *definition
}

type unionCase struct {
	labels []token.Token
	body   *member
}

type enumMember struct {
	label string
	value *token.Token
	line  int
}

type parser struct {
	tokens []token.Token
	pos    int

	namespace string
	consts    map[string]int64
	defs      []*definition
}

func newParser(tokens []token.Token) *parser {
	return &parser{
		tokens: tokens,
		consts: make(map[string]int64),
	}
}

func (p *parser) peek() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos]
}

func (p *parser) peekAt(n int) *token.Token {
	if p.pos+n >= len(p.tokens) {
		return nil
	}
	return &p.tokens[p.pos+n]
}

func (p *parser) next() *token.Token {
	if p.pos >= len(p.tokens) {
		return nil
	}
	t := &p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) line() int {
	if t := p.peek(); t != nil {
		return t.Line
	}
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1].Line
	}
	return 0
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return errors.SyntaxError{
		Line: p.line(),
		Err:  errors.ErrSyntax,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) expect(v string) (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, p.errorf("expected %q, got end of input", v)
	}
	if !t.Is(v) {
		return nil, errors.SyntaxError{Line: t.Line, Err: errors.ErrSyntax, Msg: fmt.Sprintf("expected %q, got %q", v, t.Value)}
	}
	return t, nil
}

func (p *parser) expectIdent() (*token.Token, error) {
	t := p.next()
	if t == nil {
		return nil, p.errorf("expected identifier, got end of input")
	}
	if t.Type != token.Ident {
		return nil, errors.SyntaxError{Line: t.Line, Err: errors.ErrSyntax, Msg: fmt.Sprintf("expected identifier, got %q", t.Value)}
	}
	return t, nil
}

// until collects tokens up to (and consuming) the next terminator at
// nesting depth zero
func (p *parser) until(term string) ([]token.Token, error) {
	start := p.pos
	depth := 0
	for t := p.peek(); t != nil; t = p.peek() {
		switch {
		case depth == 0 && t.Is(term):
			toks := p.tokens[start:p.pos]
			p.pos++
			return toks, nil
		case t.Is("{"), t.Is("("):
			depth++
		case t.Is("}"), t.Is(")"):
			depth--
		}
		p.pos++
	}
	return nil, p.errorf("expected %q, got end of input", term)
}

func (p *parser) add(d *definition) {
	d.order = len(p.defs)
	p.defs = append(p.defs, d)
}

func (p *parser) parse() error {
	// namespace NAME { ... }
	closeNamespace := false
	if t := p.peek(); t != nil && t.Is("namespace") {
		p.next()
		name, err := p.expectIdent()
		if err != nil {
			return err
		}
		if _, err := p.expect("{"); err != nil {
			return err
		}
		p.namespace = name.Value
		closeNamespace = true
	}

	for t := p.peek(); t != nil; t = p.peek() {
		if closeNamespace && t.Is("}") {
			p.next()
			if t := p.peek(); t != nil && t.Is(";") {
				p.next()
			}
			closeNamespace = false
			continue
		}
		if t.Is(";") {
			p.next()
			continue
		}

		var err error
		switch t.Value {
		case "const":
			err = p.parseConst()
		case "typedef":
			err = p.parseTypedef()
		case "enum":
			err = p.parseNamed(defEnum)
		case "struct":
			err = p.parseNamed(defStruct)
		case "union":
			err = p.parseNamed(defUnion)
		default:
			err = p.errorf("unexpected %q", t.Value)
		}
		if err != nil {
			return err
		}
	}

	if closeNamespace {
		return p.errorf("unterminated namespace %q", p.namespace)
	}
	return nil
}

func (p *parser) parseConst() error {
	p.next()
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	if _, err := p.expect("="); err != nil {
		return err
	}

	vt := p.next()
	if vt == nil {
		return p.errorf("expected value of constant %q", name.Value)
	}
	v, err := decl.Value(*vt, p.consts)
	if err != nil {
		return errors.SyntaxError{Line: vt.Line, Err: errors.ErrSyntax, Msg: err.Error()}
	}
	if _, err := p.expect(";"); err != nil {
		return err
	}

	p.consts[name.Value] = v
	return nil
}

// parseNamed parses `enum N {..};`, `struct N {..};` and
// `union N switch (..) {..};`
func (p *parser) parseNamed(kind defKind) error {
	p.next()
	name, err := p.expectIdent()
	if err != nil {
		return err
	}

	d := &definition{kind: kind, name: name.Value, line: name.Line}
	if err := p.parseBody(d); err != nil {
		return err
	}
	if _, err := p.expect(";"); err != nil {
		return err
	}

	p.add(d)
	return nil
}

// parseTypedef handles both plain typedefs and the
// `typedef struct {..} N;` family
func (p *parser) parseTypedef() error {
	first := p.next()

	var kind defKind
	t := p.peek()
	switch {
	case t == nil:
		return p.errorf("expected declaration after typedef")
	case t.Is("enum"):
		kind = defEnum
	case t.Is("struct"):
		kind = defStruct
	case t.Is("union"):
		kind = defUnion
	}

	// `typedef struct {` or `typedef struct tag {`; anything else is a
	// declaration such as `typedef struct foo bar;`
	isBody := false
	if kind != defTypedef {
		switch n := p.peekAt(1); {
		case n == nil:
		case n.Is("{"), n.Is("switch"):
			isBody = true
		case n.Type == token.Ident:
			if n2 := p.peekAt(2); n2 != nil && (n2.Is("{") || n2.Is("switch")) {
				isBody = true
			}
		}
	}

	if !isBody {
		toks, err := p.until(";")
		if err != nil {
			return err
		}
		p.add(&definition{kind: defTypedef, line: first.Line, decl: toks})
		return nil
	}

	p.next()
	if t := p.peek(); t.Type == token.Ident && !t.Is("switch") {
		// Tag name; the typedef name is the one which counts
		p.next()
	}

	d := &definition{kind: kind, line: first.Line}
	if err := p.parseBody(d); err != nil {
		return err
	}
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	d.name = name.Value
	if _, err := p.expect(";"); err != nil {
		return err
	}

	p.add(d)
	return nil
}

// parseBody parses everything from the opening of a type's body to its
// closing brace: `{..}` for enums and structs, `switch (..) {..}` for unions
func (p *parser) parseBody(d *definition) error {
	var err error
	switch d.kind {
	case defEnum:
		err = p.parseEnumBody(d)
	case defStruct:
		err = p.parseStructBody(d)
	case defUnion:
		err = p.parseUnionBody(d)
	}
	return err
}

func (p *parser) parseEnumBody(d *definition) error {
	if _, err := p.expect("{"); err != nil {
		return err
	}

	for {
		t := p.peek()
		if t == nil {
			return p.errorf("unterminated enum")
		}
		if t.Is("}") {
			p.next()
			return nil
		}

		label, err := p.expectIdent()
		if err != nil {
			return err
		}
		m := enumMember{label: label.Value, line: label.Line}

		if t := p.peek(); t != nil && t.Is("=") {
			p.next()
			if m.value = p.next(); m.value == nil {
				return p.errorf("expected value of %q", label.Value)
			}
		}
		d.members = append(d.members, m)

		switch t := p.peek(); {
		case t == nil:
			return p.errorf("unterminated enum")
		case t.Is(","):
			p.next()
		case t.Is("}"):
		default:
			return errors.SyntaxError{Line: t.Line, Err: errors.ErrSyntax, Msg: fmt.Sprintf("expected \",\" or \"}\", got %q", t.Value)}
		}
	}
}

func (p *parser) parseStructBody(d *definition) error {
	if _, err := p.expect("{"); err != nil {
		return err
	}

	for {
		t := p.peek()
		if t == nil {
			return p.errorf("unterminated struct")
		}
		if t.Is("}") {
			p.next()
			return nil
		}

		m, err := p.parseMember()
		if err != nil {
			return err
		}
		d.fields = append(d.fields, m)
	}
}

func (p *parser) parseUnionBody(d *definition) error {
	if _, err := p.expect("switch"); err != nil {
		return err
	}
	if _, err := p.expect("("); err != nil {
		return err
	}
	disc, err := p.until(")")
	if err != nil {
		return err
	}
	d.disc = disc
	if _, err := p.expect("{"); err != nil {
		return err
	}

	// Labels queue up until a declaration is found; every queued label
	// shares that declaration
	var pending []token.Token
	for {
		t := p.peek()
		if t == nil {
			return p.errorf("unterminated union")
		}

		switch {
		case t.Is("}"):
			p.next()
			if len(pending) > 0 {
				return errors.SyntaxError{Line: t.Line, Err: errors.ErrSyntax, Msg: "case without declaration"}
			}
			return nil

		case t.Is("case"):
			p.next()
			label := p.next()
			if label == nil || label.Type == token.Punct {
				return p.errorf("expected case label")
			}
			if _, err := p.expect(":"); err != nil {
				return err
			}
			pending = append(pending, *label)

		case t.Is("default"):
			label := *p.next()
			if _, err := p.expect(":"); err != nil {
				return err
			}
			pending = append(pending, label)

		default:
			if len(pending) == 0 {
				return p.errorf("declaration %q without case label", t.Value)
			}
			m, err := p.parseMember()
			if err != nil {
				return err
			}
			d.cases = append(d.cases, &unionCase{labels: pending, body: m})
			pending = nil
		}
	}
}

// parseMember parses one field or arm declaration, including its semicolon
func (p *parser) parseMember() (*member, error) {
	t := p.peek()
	line := t.Line

	var inline *definition
	switch n := p.peekAt(1); {
	case n == nil:
	case t.Is("struct") && n.Is("{"):
		inline = &definition{kind: defStruct, line: line}
	case t.Is("union") && n.Is("switch"):
		inline = &definition{kind: defUnion, line: line}
	}

	if inline != nil {
		p.next()
		if err := p.parseBody(inline); err != nil {
			return nil, err
		}
	}

	toks, err := p.until(";")
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 && inline == nil {
		return nil, errors.SyntaxError{Line: line, Err: errors.ErrMalformedDeclaration, Msg: "empty declaration"}
	}
	return &member{toks: toks, inline: inline}, nil
}
