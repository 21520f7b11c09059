// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"io"
	"math"
	"sync"

	xdrinterfaces "go.e43.eu/xdrschema/interfaces"
	"go.e43.eu/xdrschema/internal/errors"
	"go.e43.eu/xdrschema/manifest"
)

var decoderPool = sync.Pool{
	New: func() interface{} {
		return new(decoder)
	},
}

type decoder struct {
	r  io.Reader
	cr *Coder

	// Bytes consumed so far
	n int
	// Bytes left in the input, or -1 when reading from a stream of
	// unknown length
	remaining int64
	// Current nesting of Decode calls
	depth int

	scratch [8]byte
}

var _ xdrinterfaces.Decoder = &decoder{}

func (d *decoder) read(buf []byte) error {
	n, err := io.ReadFull(d.r, buf)
	d.n += n
	if d.remaining >= 0 {
		d.remaining -= int64(n)
	}

	switch err {
	case nil:
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return errors.InsufficientBytesError{Need: uint64(len(buf)), Have: uint64(n), Err: err}
	default:
		return err
	}
}

// checkAvailable fails early when the input is known to be shorter than
// need, so that we never allocate based upon a bogus length
func (d *decoder) checkAvailable(need uint64) error {
	if d.remaining >= 0 && need > uint64(d.remaining) {
		return errors.InsufficientBytesError{Need: need, Have: uint64(d.remaining)}
	}
	return nil
}

func (d *decoder) Consumed() int {
	return d.n
}

func (d *decoder) DecodeBool() (bool, error) {
	i, err := d.DecodeUnsignedInt()
	switch {
	case err != nil:
		return false, err
	case i == 0:
		return false, nil
	case i == 1:
		return true, nil
	default:
		return false, errors.InvalidValueError{Type: "bool", Value: i}
	}
}

func (d *decoder) DecodeInt() (int32, error) {
	u, err := d.DecodeUnsignedInt()
	return int32(u), err
}

func (d *decoder) DecodeUnsignedInt() (uint32, error) {
	b := d.scratch[0:4]
	if err := d.read(b); err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func (d *decoder) DecodeHyper() (int64, error) {
	u, err := d.DecodeUnsignedHyper()
	return int64(u), err
}

func (d *decoder) DecodeUnsignedHyper() (uint64, error) {
	b := d.scratch[0:8]
	if err := d.read(b); err != nil {
		return 0, err
	}
	return (uint64(b[0])<<56 |
		uint64(b[1])<<48 |
		uint64(b[2])<<40 |
		uint64(b[3])<<32 |
		uint64(b[4])<<24 |
		uint64(b[5])<<16 |
		uint64(b[6])<<8 |
		uint64(b[7])), nil
}

func (d *decoder) DecodeFloat() (float32, error) {
	i, err := d.DecodeUnsignedInt()
	return math.Float32frombits(i), err
}

func (d *decoder) DecodeDouble() (float64, error) {
	i, err := d.DecodeUnsignedHyper()
	return math.Float64frombits(i), err
}

func (d *decoder) DecodeOpaque(maxLen uint32) ([]byte, error) {
	l, err := d.DecodeUnsignedInt()
	switch {
	case err != nil:
		return nil, err
	case l == 0:
		return []byte{}, nil
	case l > maxLen:
		return nil, errors.LengthError{Actual: uint64(l), Max: uint64(maxLen)}
	case uint64(l) > uint64(maxInt):
		return nil, errors.LengthError{Actual: uint64(l), Max: uint64(maxLen)}
	}

	if d.remaining < 0 && l > streamThreshold {
		return d.readStreamed(l)
	}

	lPad := (uint64(l) + 3) & ^uint64(3)
	if err := d.checkAvailable(lPad); err != nil {
		return nil, err
	}

	buf := make([]byte, lPad)
	if err := d.read(buf); err != nil {
		return nil, err
	}
	return buf[0:int(l)], nil
}

func (d *decoder) DecodeFixedOpaque(buf []byte) error {
	var discard [4]byte

	if err := d.checkAvailable(uint64(len(buf))); err != nil {
		return err
	}
	if err := d.read(buf); err != nil {
		return err
	}

	// Discard any padding
	n := ((len(buf) + 3) & ^3) - len(buf)
	if n != 0 {
		return d.read(discard[0:n])
	}
	return nil
}

func (d *decoder) DecodeString(maxLen uint32) (string, error) {
	b, err := d.DecodeOpaque(maxLen)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) DecodeFixedString(len uint32) (string, error) {
	if uint64(len) > uint64(maxInt) {
		return "", errors.LengthError{Actual: uint64(len), Max: uint64(len)}
	}
	if err := d.checkAvailable(uint64(len)); err != nil {
		return "", err
	}

	b := make([]byte, len)
	if err := d.DecodeFixedOpaque(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) Decode(decl manifest.Declaration) (interface{}, error) {
	d.depth++
	defer func() { d.depth-- }()

	if d.depth > d.cr.maxDepth {
		return nil, errors.ErrMaxDepth
	}
	return d.cr.decodeDecl(d, decl)
}

func (d *decoder) release() {
	d.r = nil
	d.cr = nil
	decoderPool.Put(d)
}
