// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package compiler turns XDR IDL source into a manifest.
//
// Compilation runs in stages over the parsed definitions: constants,
// typedefs, enums, lifting of anonymous inline bodies, unions, structs,
// and finally entry inference and the closure of types reachable from the
// entry.
package compiler

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go.e43.eu/xdrschema/internal/decl"
	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/internal/token"
	"go.e43.eu/xdrschema/manifest"
)

// IncludeResolver locates and fetches the targets of `%#include` directives
type IncludeResolver interface {
	// Locate resolves ref relative to the including document base
	Locate(base, ref string) string

	// Fetch returns the text at location
	Fetch(ctx context.Context, location string) (string, error)
}

// Options controls compilation
type Options struct {
	// Entry names the entry type. When empty it is inferred.
	Entry string

	// Name and Namespace override the manifest's; Name defaults to the
	// entry and Namespace to the source's `namespace` block
	Name      string
	Namespace string

	// Base is the location of the source, against which includes are
	// resolved
	Base string

	// Includes fetches included documents. Sources which include others
	// fail to compile without one.
	Includes IncludeResolver

	Logger *zap.Logger
}

var includeRe = regexp.MustCompile(`%#include\s+["<]([^">]+)[">]\s*;?`)

// anonNamespace seeds the names of lifted anonymous types
var anonNamespace = uuid.MustParse("6f1d3c5e-8a0b-4b7e-9d2c-2b9a4e7f1c30")

type compiler struct {
	opts   Options
	log    *zap.Logger
	parser *parser

	labels   map[string]int32 // every enum label seen so far
	enums    map[string]manifest.Enum
	structs  map[string]manifest.Struct
	unions   map[string]manifest.Union
	typedefs map[string]manifest.Declaration
	order    map[string]int
}

// Compile compiles src. The context is only used when fetching includes.
func Compile(ctx context.Context, src string, opts Options) (*manifest.Manifest, error) {
	c := &compiler{
		opts:     opts,
		log:      opts.Logger,
		labels:   make(map[string]int32),
		enums:    make(map[string]manifest.Enum),
		structs:  make(map[string]manifest.Struct),
		unions:   make(map[string]manifest.Union),
		typedefs: make(map[string]manifest.Declaration),
		order:    make(map[string]int),
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}

	text, err := c.expandIncludes(ctx, src, opts.Base, make(map[string]bool))
	if err != nil {
		return nil, err
	}

	toks, err := token.Tokenize(text)
	if err != nil {
		var line int
		if te, ok := err.(*token.Error); ok {
			line = te.Line
		}
		return nil, errors.SyntaxError{Line: line, Err: errors.ErrSyntax, Msg: err.Error()}
	}

	c.parser = newParser(toks)
	if err := c.parser.parse(); err != nil {
		return nil, err
	}

	steps := []func() error{
		c.resolveTypedefs,
		c.resolveEnums,
		c.lift,
		c.resolveUnions,
		c.resolveStructs,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	entry := opts.Entry
	if entry == "" {
		if entry, err = c.inferEntry(); err != nil {
			return nil, err
		}
		c.log.Debug("inferred entry type", zap.String("entry", entry))
	}

	m, err := c.closure(entry)
	if err != nil {
		return nil, err
	}

	m.Name = opts.Name
	if m.Name == "" {
		m.Name = entry
	}
	m.Namespace = opts.Namespace
	if m.Namespace == "" {
		m.Namespace = c.parser.namespace
	}

	c.log.Debug("compiled manifest",
		zap.String("name", m.Name),
		zap.String("namespace", m.Namespace),
		zap.String("entry", m.Entry),
		zap.Int("types", len(m.Names())))
	return m, nil
}

// expandIncludes substitutes each `%#include` with the included text,
// recursively. A document is included at most once; later references to
// it expand to nothing.
func (c *compiler) expandIncludes(ctx context.Context, text, base string, seen map[string]bool) (string, error) {
	var err error
	out := includeRe.ReplaceAllStringFunc(text, func(directive string) string {
		if err != nil {
			return ""
		}

		ref := includeRe.FindStringSubmatch(directive)[1]
		if c.opts.Includes == nil {
			err = errors.SyntaxError{Err: errors.ErrSyntax, Msg: fmt.Sprintf("include %q requires an include resolver", ref)}
			return ""
		}

		loc := c.opts.Includes.Locate(base, ref)
		if seen[loc] {
			return ""
		}
		seen[loc] = true

		c.log.Debug("including", zap.String("ref", ref), zap.String("location", loc))
		body, ferr := c.opts.Includes.Fetch(ctx, loc)
		if ferr != nil {
			err = ferr
			return ""
		}

		expanded, eerr := c.expandIncludes(ctx, body, loc, seen)
		if eerr != nil {
			err = eerr
			return ""
		}
		return expanded + "\n"
	})
	return out, err
}

// define records that name is defined at order. When a name is defined more
// than once the last definition in the source wins, whatever its kind.
func (c *compiler) define(kind defKind, name string, order int) bool {
	if prev, ok := c.order[name]; ok {
		c.log.Debug("type redefined", zap.String("name", name), zap.Stringer("kind", kind))
		if prev > order {
			return false
		}
		delete(c.enums, name)
		delete(c.structs, name)
		delete(c.unions, name)
		delete(c.typedefs, name)
	}
	c.order[name] = order
	return true
}

func (c *compiler) resolveTypedefs() error {
	for _, d := range c.parser.defs {
		if d.kind != defTypedef {
			continue
		}

		td, err := decl.FromTokens(d.decl, c.parser.consts)
		if err != nil {
			return err
		}
		if td.Identifier == "" {
			return errors.SyntaxError{Line: d.line, Err: errors.ErrMalformedDeclaration, Msg: "typedef without a name"}
		}

		d.name, td.Identifier = td.Identifier, ""
		if c.define(defTypedef, d.name, d.order) {
			c.typedefs[d.name] = td
		}
	}
	return nil
}

func (c *compiler) enumValue(m enumMember) (int32, error) {
	invalid := func(msg string) error {
		return errors.SyntaxError{Line: m.line, Err: errors.ErrInvalidEnumMember, Msg: fmt.Sprintf("%s: %s", m.label, msg)}
	}

	if m.value == nil {
		return 0, invalid("missing value")
	}

	var v int64
	switch m.value.Type {
	case token.Number:
		n, err := decl.ParseNumber(m.value.Value)
		if err != nil {
			return 0, invalid(err.Error())
		}
		v = n
	case token.Ident:
		if n, ok := c.parser.consts[m.value.Value]; ok {
			v = n
		} else if n, ok := c.labels[m.value.Value]; ok {
			v = int64(n)
		} else {
			return 0, invalid(fmt.Sprintf("unknown value %q", m.value.Value))
		}
	default:
		return 0, invalid(fmt.Sprintf("unexpected %q", m.value.Value))
	}

	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, invalid(fmt.Sprintf("value %d out of range", v))
	}
	return int32(v), nil
}

func (c *compiler) resolveEnums() error {
	for _, d := range c.parser.defs {
		if d.kind != defEnum {
			continue
		}

		enum := make(manifest.Enum, 0, len(d.members))
		for _, m := range d.members {
			v, err := c.enumValue(m)
			if err != nil {
				return err
			}
			enum = append(enum, manifest.EnumValue{Label: m.label, Value: v})
			c.labels[m.label] = v
		}
		enum.Sort()

		if c.define(defEnum, d.name, d.order) {
			c.enums[d.name] = enum
		}
	}
	return nil
}

// anonName names a lifted body deterministically from where it was found:
// the parent type, the position of the member within it and its identifier
func anonName(kind defKind, parent string, pos int, ident string) string {
	prefix := "aStruct"
	if kind == defUnion {
		prefix = "aUnion"
	}
	id := uuid.NewSHA1(anonNamespace, []byte(fmt.Sprintf("%s/%d/%s", parent, pos, ident)))
	return prefix + strings.ReplaceAll(id.String(), "-", "")
}

// memberIdent finds the identifier in the remainder of an inline member,
// e.g. `x` in `*x<5>`
func memberIdent(toks []token.Token) string {
	for _, t := range toks {
		if t.Type == token.Ident {
			return t.Value
		}
	}
	return ""
}

// lift hoists every anonymous inline body to a uniquely named top level
// definition, replacing it with a reference. Lifted bodies may themselves
// contain inline bodies, so this runs as a worklist.
func (c *compiler) lift() error {
	work := make([]*definition, 0, len(c.parser.defs))
	for _, d := range c.parser.defs {
		if d.kind == defStruct || d.kind == defUnion {
			work = append(work, d)
		}
	}

	for len(work) > 0 {
		d := work[0]
		work = work[1:]

		members := d.fields
		for _, uc := range d.cases {
			members = append(members, uc.body)
		}

		for pos, m := range members {
			if m.inline == nil {
				continue
			}

			ident := memberIdent(m.toks)
			if ident == "" {
				return errors.SyntaxError{Line: m.inline.line, Err: errors.ErrMalformedDeclaration, Msg: fmt.Sprintf("anonymous %s without identifier", m.inline.kind)}
			}

			lifted := m.inline
			lifted.name = anonName(lifted.kind, d.name, pos, ident)
			c.parser.add(lifted)
			work = append(work, lifted)

			ref := token.Token{Value: lifted.name, Type: token.Ident, Line: lifted.line}
			m.toks = append([]token.Token{ref}, m.toks...)
			m.inline = nil

			c.log.Debug("lifted anonymous type",
				zap.String("name", lifted.name),
				zap.String("parent", d.name),
				zap.String("identifier", ident))
		}
	}
	return nil
}

// discriminantKind resolves the base type of a union discriminant through
// the typedefs and enums known so far
func (c *compiler) discriminantKind(disc manifest.Discriminant) string {
	name := disc.Type
	for i := 0; i <= len(c.typedefs); i++ {
		if _, ok := c.enums[name]; ok {
			return "enum"
		}
		td, ok := c.typedefs[name]
		if !ok {
			break
		}
		name = td.Type
	}
	return name
}

// caseLabel normalises a case label: enum discriminants use labels, bool
// discriminants TRUE and FALSE, and integer discriminants decimal values
func (c *compiler) caseLabel(kind string, enum manifest.Enum, t token.Token) (string, error) {
	if t.Is(manifest.DefaultArm) {
		return manifest.DefaultArm, nil
	}

	var (
		v  int64
		ok bool
	)
	if t.Type == token.Number {
		n, err := decl.ParseNumber(t.Value)
		if err != nil {
			return "", errors.SyntaxError{Line: t.Line, Err: errors.ErrSyntax, Msg: err.Error()}
		}
		v, ok = n, true
	} else if n, found := c.parser.consts[t.Value]; found {
		v, ok = n, true
	} else if n, found := c.labels[t.Value]; found {
		v, ok = int64(n), true
	}

	switch kind {
	case "enum":
		if _, isLabel := enum.Value(t.Value); isLabel {
			return t.Value, nil
		}
		if ok {
			if label, found := enum.Label(int32(v)); found {
				return label, nil
			}
		}

	case "bool":
		switch strings.ToUpper(t.Value) {
		case "TRUE", "1":
			return "TRUE", nil
		case "FALSE", "0":
			return "FALSE", nil
		}

	default:
		if ok {
			return strconv.FormatInt(v, 10), nil
		}
	}

	return "", errors.SyntaxError{Line: t.Line, Err: errors.ErrSyntax, Msg: fmt.Sprintf("invalid case label %q", t.Value)}
}

func (c *compiler) resolveUnions() error {
	for _, d := range c.parser.defs {
		if d.kind != defUnion {
			continue
		}

		dd, err := decl.FromTokens(d.disc, c.parser.consts)
		if err != nil {
			return err
		}
		u := manifest.Union{
			Discriminant: manifest.Discriminant{
				Type:       dd.Type,
				Identifier: dd.Identifier,
				Unsigned:   dd.Unsigned,
			},
		}

		kind := c.discriminantKind(u.Discriminant)
		var enum manifest.Enum
		if kind == "enum" {
			name := u.Discriminant.Type
			for td, ok := c.typedefs[name]; ok; td, ok = c.typedefs[name] {
				name = td.Type
			}
			enum = c.enums[name]
		}

		for _, uc := range d.cases {
			body, err := decl.FromTokens(uc.body.toks, c.parser.consts)
			if err != nil {
				return err
			}

			for _, lt := range uc.labels {
				label, err := c.caseLabel(kind, enum, lt)
				if err != nil {
					return err
				}
				u.Arms = append(u.Arms, manifest.Arm{Label: label, Declaration: body})
			}
		}

		if c.define(defUnion, d.name, d.order) {
			c.unions[d.name] = u
		}
	}
	return nil
}

func (c *compiler) resolveStructs() error {
	for _, d := range c.parser.defs {
		if d.kind != defStruct {
			continue
		}

		s := make(manifest.Struct, 0, len(d.fields))
		for _, f := range d.fields {
			field, err := decl.FromTokens(f.toks, c.parser.consts)
			if err != nil {
				return err
			}
			s = append(s, field)
		}

		if c.define(defStruct, d.name, d.order) {
			c.structs[d.name] = s
		}
	}
	return nil
}
