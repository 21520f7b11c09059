// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bytes"
	"io"

	"go.e43.eu/xdrschema/internal/errors"
)

// Opaques longer than this, read from a stream of unknown length, are read
// incrementally rather than into a buffer of the announced size
const streamThreshold = 64 << 10

// opaqueReader reads the body of an opaque of known length, and then its
// padding when closed
type opaqueReader struct {
	lr     io.LimitedReader
	padLen byte
}

func newOpaqueReader(r io.Reader, len int64) *opaqueReader {
	return &opaqueReader{
		lr: io.LimitedReader{
			R: r,
			N: len,
		},
		padLen: uint8(((len + 3) & ^3) - len),
	}
}

func (o *opaqueReader) Read(p []byte) (int, error) {
	return o.lr.Read(p)
}

func (o *opaqueReader) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, &o.lr)
}

// Close discards the rest of the body and the padding
func (o *opaqueReader) Close() error {
	o.lr.N += int64(o.padLen)
	_, err := io.Copy(io.Discard, &o.lr)
	return err
}

var _ io.ReadCloser = &opaqueReader{}
var _ io.WriterTo = &opaqueReader{}

// readStreamed reads an opaque body of length l from the stream, growing
// the result as data arrives so that a corrupt length cannot force a huge
// allocation
func (d *decoder) readStreamed(l uint32) ([]byte, error) {
	or := newOpaqueReader(d.r, int64(l))

	var buf bytes.Buffer
	buf.Grow(streamThreshold)
	n, err := or.WriteTo(&buf)
	d.n += int(n)
	if err != nil {
		return nil, err
	}
	if n < int64(l) {
		return nil, errors.InsufficientBytesError{Need: uint64(l), Have: uint64(n), Err: io.ErrUnexpectedEOF}
	}

	if err := or.Close(); err != nil {
		return nil, err
	}
	if or.lr.N != 0 {
		return nil, errors.InsufficientBytesError{Need: uint64(or.padLen), Have: uint64(int64(or.padLen) - or.lr.N), Err: io.ErrUnexpectedEOF}
	}
	d.n += int(or.padLen)
	return buf.Bytes(), nil
}
