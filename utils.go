// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package xdrschema

import (
	"context"
	"io"

	"go.uber.org/zap"

	"go.e43.eu/xdrschema/internal/coder"
	"go.e43.eu/xdrschema/internal/compiler"
	"go.e43.eu/xdrschema/internal/decl"
	"go.e43.eu/xdrschema/manifest"
)

// IncludeResolver locates and fetches the targets of `%#include` directives.
// The include package provides a caching implementation.
type IncludeResolver = compiler.IncludeResolver

// CompileOption configures Compile
type CompileOption func(*compiler.Options)

// WithEntry sets the entry type instead of inferring it
func WithEntry(entry string) CompileOption {
	return func(o *compiler.Options) { o.Entry = entry }
}

// WithName overrides the manifest name (which defaults to the entry)
func WithName(name string) CompileOption {
	return func(o *compiler.Options) { o.Name = name }
}

// WithNamespace overrides the namespace declared by the source
func WithNamespace(ns string) CompileOption {
	return func(o *compiler.Options) { o.Namespace = ns }
}

// WithIncludes resolves `%#include` directives relative to base
func WithIncludes(r IncludeResolver, base string) CompileOption {
	return func(o *compiler.Options) {
		o.Includes = r
		o.Base = base
	}
}

// WithLogger logs compilation through l instead of the package logger
func WithLogger(l *zap.Logger) CompileOption {
	return func(o *compiler.Options) { o.Logger = l }
}

// Compile compiles IDL source into a manifest
func Compile(src string, opts ...CompileOption) (*Manifest, error) {
	return CompileContext(context.Background(), src, opts...)
}

// CompileContext compiles IDL source into a manifest. ctx is passed to the
// include resolver.
func CompileContext(ctx context.Context, src string, opts ...CompileOption) (*Manifest, error) {
	o := compiler.Options{Logger: Logger()}
	for _, opt := range opts {
		opt(&o)
	}
	return compiler.Compile(ctx, src, o)
}

// ParseDeclaration parses a single declaration such as `opaque data<16>`.
// consts names the constants usable as array bounds; it may be nil.
func ParseDeclaration(text string, consts map[string]int64) (Declaration, error) {
	return decl.Parse(text, consts)
}

// CoderOption configures NewCoder
type CoderOption func(*coder.Options)

// WithStrict makes decoding of undefined enum values fail instead of
// falling back to the zero label
func WithStrict(strict bool) CoderOption {
	return func(o *coder.Options) { o.Strict = strict }
}

// WithMaxDepth bounds recursion through self-referential schemas
func WithMaxDepth(depth int) CoderOption {
	return func(o *coder.Options) { o.MaxDepth = depth }
}

// Construct a new Coder for m
func NewCoder(m *Manifest, opts ...CoderOption) Coder {
	var o coder.Options
	for _, opt := range opts {
		opt(&o)
	}
	return coder.NewCoder(m, o)
}

// Marshals v as the entry type of m into the returned buffer
func Marshal(m *Manifest, v interface{}) ([]byte, error) {
	return coder.NewCoder(m, coder.Options{}).Marshal(v)
}

// Unmarshals buf as the entry type of m
func Unmarshal(m *Manifest, buf []byte) (interface{}, error) {
	return coder.NewCoder(m, coder.Options{}).Unmarshal(buf)
}

// Write marshals v as the entry type of m into the passed writer
func Write(w io.Writer, m *Manifest, v interface{}) error {
	return coder.NewCoder(m, coder.Options{}).Write(w, v)
}

// Read unmarshals a value of the entry type of m out of the passed reader
func Read(r io.Reader, m *Manifest) (interface{}, error) {
	return coder.NewCoder(m, coder.Options{}).Read(r)
}

// NewManifest returns an empty manifest with the given entry, ready to be
// filled in by hand
func NewManifest(entry string) *Manifest {
	return manifest.New(entry)
}
