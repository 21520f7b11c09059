// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package manifest defines the schema manifest produced by the IDL compiler
// and consumed by the codec.
//
// A Manifest names an entry type and contains every enum, struct, union and
// typedef reachable from it. Manifests are plain data; they are safe to share
// between goroutines once constructed, as long as nobody mutates them.
package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// Unbounded is the length recorded for a variable length declaration which
// does not specify a maximum (`<>`). It is the largest count XDR can encode.
const Unbounded = ^uint32(0)

// Mode describes whether a declaration is an array, and which kind
type Mode uint8

const (
	// ModeNone is a scalar declaration
	ModeNone Mode = iota
	// ModeFixed is a fixed length array (`[N]`); the length is exact
	ModeFixed
	// ModeVariable is a variable length array (`<N>`); the length is a maximum
	ModeVariable
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return ""
	case ModeFixed:
		return "fixed"
	case ModeVariable:
		return "variable"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m > ModeVariable {
		return nil, fmt.Errorf("manifest: invalid mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "", "none":
		*m = ModeNone
	case "fixed":
		*m = ModeFixed
	case "variable":
		*m = ModeVariable
	default:
		return fmt.Errorf("manifest: invalid mode %q", string(b))
	}
	return nil
}

// Declaration is a typed, optionally named slot: a struct field, a union arm
// body, or the target of a typedef
type Declaration struct {
	Type       string `json:"type" yaml:"type"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Length     uint32 `json:"length,omitempty" yaml:"length,omitempty"`
	Mode       Mode   `json:"mode,omitempty" yaml:"mode,omitempty"`
	Optional   bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
	Unsigned   bool   `json:"unsigned,omitempty" yaml:"unsigned,omitempty"`
}

// IsArray reports whether d declares a fixed or variable length array
func (d Declaration) IsArray() bool {
	return d.Mode != ModeNone
}

// Element returns the declaration of a single item of the array d
func (d Declaration) Element() Declaration {
	d.Mode, d.Length, d.Optional = ModeNone, 0, false
	return d
}

// Required returns d without the optional marker
func (d Declaration) Required() Declaration {
	d.Optional = false
	return d
}

// String renders d in IDL syntax (without the trailing semicolon)
func (d Declaration) String() string {
	var sb strings.Builder
	if d.Unsigned {
		sb.WriteString("unsigned ")
	}
	sb.WriteString(d.Type)
	if d.Optional {
		sb.WriteByte('*')
	}
	if d.Identifier != "" {
		sb.WriteByte(' ')
		sb.WriteString(d.Identifier)
	}
	switch d.Mode {
	case ModeFixed:
		fmt.Fprintf(&sb, "[%d]", d.Length)
	case ModeVariable:
		if d.Length == Unbounded {
			sb.WriteString("<>")
		} else {
			fmt.Fprintf(&sb, "<%d>", d.Length)
		}
	}
	return sb.String()
}

// EnumValue is a single label of an enum
type EnumValue struct {
	Label string `json:"identifier" yaml:"identifier"`
	Value int32  `json:"value" yaml:"value"`
}

// Enum is the ordered (by value) set of labels of an enumeration. Values may
// be sparse.
type Enum []EnumValue

// Sort orders the labels by value
func (e Enum) Sort() {
	sort.SliceStable(e, func(i, j int) bool { return e[i].Value < e[j].Value })
}

// Label returns the label with value v
func (e Enum) Label(v int32) (string, bool) {
	for _, ev := range e {
		if ev.Value == v {
			return ev.Label, true
		}
	}
	return "", false
}

// Value returns the value of label l
func (e Enum) Value(l string) (int32, bool) {
	for _, ev := range e {
		if ev.Label == l {
			return ev.Value, true
		}
	}
	return 0, false
}

// Default returns the label used when decoding a value the enum does not
// define: the label whose value is 0, or failing that the lowest one
func (e Enum) Default() (EnumValue, bool) {
	if len(e) == 0 {
		return EnumValue{}, false
	}
	for _, ev := range e {
		if ev.Value == 0 {
			return ev, true
		}
	}
	return e[0], true
}

// Struct is the ordered list of fields of a structure, in wire order
type Struct []Declaration

// Field returns the field named name
func (s Struct) Field(name string) (Declaration, bool) {
	for _, f := range s {
		if f.Identifier == name {
			return f, true
		}
	}
	return Declaration{}, false
}

// Discriminant is the switch of a union
type Discriminant struct {
	Type       string `json:"type" yaml:"type"`
	Identifier string `json:"identifier" yaml:"identifier"`
	Unsigned   bool   `json:"unsigned,omitempty" yaml:"unsigned,omitempty"`
}

// DefaultArm is the label of the default arm of a union
const DefaultArm = "default"

// Arm is one case label of a union and the body selected by it. Several arms
// share a body when cases fall through.
type Arm struct {
	Label       string `json:"arm" yaml:"arm"`
	Declaration `yaml:",inline"`
}

// Union is a discriminated union
type Union struct {
	Discriminant Discriminant `json:"discriminant" yaml:"discriminant"`
	Arms         []Arm        `json:"arms" yaml:"arms"`
}

// Arm returns the arm for label, if defined. It does not consider the
// default arm.
func (u Union) Arm(label string) (Arm, bool) {
	for _, a := range u.Arms {
		if a.Label == label {
			return a, true
		}
	}
	return Arm{}, false
}

// Manifest is a compiled schema
type Manifest struct {
	Entry     string                 `json:"entry" yaml:"entry"`
	Name      string                 `json:"name,omitempty" yaml:"name,omitempty"`
	Namespace string                 `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Enums     map[string]Enum        `json:"enums,omitempty" yaml:"enums,omitempty"`
	Structs   map[string]Struct      `json:"structs,omitempty" yaml:"structs,omitempty"`
	Unions    map[string]Union       `json:"unions,omitempty" yaml:"unions,omitempty"`
	Typedefs  map[string]Declaration `json:"typedefs,omitempty" yaml:"typedefs,omitempty"`
}

// New returns an empty manifest with all dictionaries allocated
func New(entry string) *Manifest {
	return &Manifest{
		Entry:    entry,
		Enums:    make(map[string]Enum),
		Structs:  make(map[string]Struct),
		Unions:   make(map[string]Union),
		Typedefs: make(map[string]Declaration),
	}
}

// Kind classifies a type name within a manifest
type Kind uint8

const (
	KindUnknown Kind = iota
	KindEnum
	KindStruct
	KindUnion
	KindTypedef
	KindPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindUnion:
		return "union"
	case KindTypedef:
		return "typedef"
	case KindPrimitive:
		return "primitive"
	default:
		return "unknown"
	}
}

var primitives = map[string]struct{}{
	"int":       {},
	"hyper":     {},
	"float":     {},
	"double":    {},
	"quadruple": {},
	"bool":      {},
	"opaque":    {},
	"string":    {},
	"void":      {},
}

// IsPrimitive reports whether name is a built in XDR type
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// Kind resolves name, checking enums, structs, unions, typedefs and then the
// primitives, in that order
func (m *Manifest) Kind(name string) Kind {
	if _, ok := m.Enums[name]; ok {
		return KindEnum
	}
	if _, ok := m.Structs[name]; ok {
		return KindStruct
	}
	if _, ok := m.Unions[name]; ok {
		return KindUnion
	}
	if _, ok := m.Typedefs[name]; ok {
		return KindTypedef
	}
	if IsPrimitive(name) {
		return KindPrimitive
	}
	return KindUnknown
}

// Names returns the sorted names of every type the manifest defines
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Enums)+len(m.Structs)+len(m.Unions)+len(m.Typedefs))
	for n := range m.Enums {
		names = append(names, n)
	}
	for n := range m.Structs {
		names = append(names, n)
	}
	for n := range m.Unions {
		names = append(names, n)
	}
	for n := range m.Typedefs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy of m
func (m *Manifest) Clone() *Manifest {
	c := New(m.Entry)
	c.Name, c.Namespace = m.Name, m.Namespace
	for n, e := range m.Enums {
		c.Enums[n] = append(Enum(nil), e...)
	}
	for n, s := range m.Structs {
		c.Structs[n] = append(Struct(nil), s...)
	}
	for n, u := range m.Unions {
		c.Unions[n] = Union{u.Discriminant, append([]Arm(nil), u.Arms...)}
	}
	for n, d := range m.Typedefs {
		c.Typedefs[n] = d
	}
	return c
}
