// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sync"

	xdrinterfaces "go.e43.eu/xdrschema/interfaces"
	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

const (
	// maxUint is the maximum value a uint can hold
	maxUint = ^uint(0)
	// maxInt is the maximum value an int can hold
	maxInt = int(maxUint >> 1)

	// DefaultMaxDepth bounds the nesting of a single encode or decode
	DefaultMaxDepth = 200
)

// Options tune the behaviour of a Coder
type Options struct {
	// Strict makes decoding of undefined enum values (and union
	// discriminants) fail instead of falling back to the zero label
	Strict bool

	// MaxDepth limits recursion; zero means DefaultMaxDepth
	MaxDepth int
}

// Coder marshals native values as described by a manifest
type Coder struct {
	m        *manifest.Manifest
	opts     Options
	codecs   sync.Map // map[string]xdrinterfaces.Codec
	maxDepth int
}

var _ xdrinterfaces.Coder = &Coder{}

func NewCoder(m *manifest.Manifest, opts Options) *Coder {
	cr := &Coder{
		m:        m,
		opts:     opts,
		maxDepth: opts.MaxDepth,
	}
	if cr.maxDepth <= 0 {
		cr.maxDepth = DefaultMaxDepth
	}
	return cr
}

func (cr *Coder) Manifest() *manifest.Manifest {
	return cr.m
}

// RegisterCodec installs c for every declaration of the named type. Codecs
// may not be registered for the XDR primitives.
func (cr *Coder) RegisterCodec(name string, c xdrinterfaces.Codec) {
	if manifest.IsPrimitive(name) || name == "" {
		panic(fmt.Sprintf("Attempt to register codec for primitive %q is prohibited", name))
	}

	existing, found := cr.codecs.LoadOrStore(name, c)
	if found && existing.(xdrinterfaces.Codec) != c {
		panic(fmt.Sprintf("Attempt to register codec '%v' for type '%s' but '%v' is already registered", c, name, existing))
	}
}

func (cr *Coder) codec(name string) (xdrinterfaces.Codec, bool) {
	c, ok := cr.codecs.Load(name)
	if !ok {
		return nil, false
	}
	return c.(xdrinterfaces.Codec), true
}

func (cr *Coder) entry() (manifest.Declaration, error) {
	if cr.m.Entry == "" {
		return manifest.Declaration{}, errors.ErrNoEntryFound
	}
	return manifest.Declaration{Type: cr.m.Entry}, nil
}

func (cr *Coder) NewEncoder(w io.Writer) xdrinterfaces.Encoder {
	return cr.newEncoder(w)
}

func (cr *Coder) newEncoder(w io.Writer) *encoder {
	e := encoderPool.Get().(*encoder)
	e.reset(cr, w)
	return e
}

func (cr *Coder) NewDecoder(r io.Reader) xdrinterfaces.Decoder {
	return cr.newDecoder(r, -1)
}

func (cr *Coder) newDecoder(r io.Reader, remaining int64) *decoder {
	d := decoderPool.Get().(*decoder)
	d.r = r
	d.cr = cr
	d.n = 0
	d.depth = 0
	d.remaining = remaining
	return d
}

func (cr *Coder) Marshal(v interface{}) ([]byte, error) {
	d, err := cr.entry()
	if err != nil {
		return nil, err
	}
	return cr.MarshalDecl(v, d)
}

func (cr *Coder) MarshalType(name string, v interface{}) ([]byte, error) {
	return cr.MarshalDecl(v, manifest.Declaration{Type: name})
}

func (cr *Coder) MarshalDecl(v interface{}, d manifest.Declaration) ([]byte, error) {
	e := marshalEncoderPool.Get().(*marshalEncoder)
	defer e.release()

	e.reset(cr)
	if err := e.Encode(v, d); err != nil {
		return nil, err
	}

	return append([]byte(nil), e.b.Bytes()...), nil
}

func (cr *Coder) Unmarshal(buf []byte) (interface{}, error) {
	d, err := cr.entry()
	if err != nil {
		return nil, err
	}
	v, _, err := cr.UnmarshalDecl(buf, d)
	return v, err
}

func (cr *Coder) UnmarshalType(name string, buf []byte) (interface{}, error) {
	v, _, err := cr.UnmarshalDecl(buf, manifest.Declaration{Type: name})
	return v, err
}

func (cr *Coder) UnmarshalDecl(buf []byte, decl manifest.Declaration) (interface{}, int, error) {
	var r bytes.Reader
	r.Reset(buf)
	d := cr.newDecoder(&r, int64(len(buf)))
	v, err := d.Decode(decl)
	n := d.n
	d.release()
	if err != nil {
		return nil, n, err
	}
	return v, n, nil
}

var writerPool = sync.Pool{
	New: func() interface{} {
		return bufio.NewWriter(nil)
	},
}

func (cr *Coder) Write(w io.Writer, v interface{}) error {
	decl, err := cr.entry()
	if err != nil {
		return err
	}

	switch w.(type) {
	case *bytes.Buffer, *bufio.Writer:
		// Already buffered
		e := cr.newEncoder(w)
		err := e.Encode(v, decl)
		e.release()
		return err
	}

	bw := writerPool.Get().(*bufio.Writer)
	bw.Reset(w)
	e := cr.newEncoder(bw)
	err = e.Encode(v, decl)
	e.release()
	if err == nil {
		err = bw.Flush()
	}
	bw.Reset(nil)
	writerPool.Put(bw)
	return err
}

func (cr *Coder) Read(r io.Reader) (interface{}, error) {
	decl, err := cr.entry()
	if err != nil {
		return nil, err
	}

	d := cr.newDecoder(r, -1)
	v, err := d.Decode(decl)
	d.release()
	return v, err
}
