package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer is returned when a buffer ends before a field or record does.
	ErrShortBuffer = errors.New("layout: buffer too short")
	// ErrOverflow is returned when a value cannot be represented in its field width.
	ErrOverflow = errors.New("layout: value does not fit field")
	// ErrDiscriminator is returned when an account's 8-byte type tag does not
	// match the layout it is decoded with.
	ErrDiscriminator = errors.New("layout: account discriminator mismatch")
	// ErrSpan is returned by span assertions on composed layouts.
	ErrSpan = errors.New("layout: span mismatch")
)

// ShortBufferError reports which layout ran out of bytes.
type ShortBufferError struct {
	Layout string
	Offset int
	Have   int
	Want   int
}

func (e *ShortBufferError) Error() string {
	return fmt.Sprintf("layout: %s at offset %d too short: have %d want >= %d", e.Layout, e.Offset, e.Have, e.Want)
}

func (e *ShortBufferError) Unwrap() error { return ErrShortBuffer }

// SpanError reports a composed layout whose size drifted from the size
// documented for the on-chain struct.
type SpanError struct {
	Layout string
	Have   int
	Want   int
}

func (e *SpanError) Error() string {
	return fmt.Sprintf("layout: %s spans %d bytes, expected %d", e.Layout, e.Have, e.Want)
}

func (e *SpanError) Unwrap() error { return ErrSpan }

func checkBounds(name string, b []byte, off, span int) error {
	if off < 0 || off > len(b) || len(b)-off < span {
		have := len(b) - off
		if have < 0 {
			have = 0
		}
		return &ShortBufferError{Layout: name, Offset: off, Have: have, Want: span}
	}
	return nil
}
