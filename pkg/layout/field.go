package layout

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Field describes a fixed-span value inside an account buffer.
//
// Decode reads the value starting at off. Encode writes v starting at off and
// returns the number of bytes written, which is always Span() on success.
type Field[T any] interface {
	Span() int
	Decode(b []byte, off int) (T, error)
	Encode(v T, b []byte, off int) (int, error)
}

// fixed is a primitive read through the binary decoder in little-endian order.
type fixed[T any] struct {
	name  string
	span  int
	read  func(*bin.Decoder) (T, error)
	write func(*bin.Encoder, T) error
}

func (f fixed[T]) Span() int { return f.span }

func (f fixed[T]) Decode(b []byte, off int) (T, error) {
	var zero T
	if err := checkBounds(f.name, b, off, f.span); err != nil {
		return zero, err
	}
	v, err := f.read(bin.NewBinDecoder(b[off : off+f.span]))
	if err != nil {
		return zero, fmt.Errorf("layout: decode %s: %w", f.name, err)
	}
	return v, nil
}

func (f fixed[T]) Encode(v T, b []byte, off int) (int, error) {
	if err := checkBounds(f.name, b, off, f.span); err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	if err := f.write(bin.NewBinEncoder(&buf), v); err != nil {
		return 0, fmt.Errorf("layout: encode %s: %w", f.name, err)
	}
	copy(b[off:off+f.span], buf.Bytes())
	return f.span, nil
}

// U8 is a single unsigned byte.
func U8() Field[uint8] {
	return fixed[uint8]{
		name:  "u8",
		span:  1,
		read:  func(d *bin.Decoder) (uint8, error) { return d.ReadUint8() },
		write: func(e *bin.Encoder, v uint8) error { return e.WriteUint8(v) },
	}
}

// Bool is a single byte holding 0 or 1.
func Bool() Field[bool] {
	return fixed[bool]{
		name:  "bool",
		span:  1,
		read:  func(d *bin.Decoder) (bool, error) { return d.ReadBool() },
		write: func(e *bin.Encoder, v bool) error { return e.WriteBool(v) },
	}
}

func U16() Field[uint16] {
	return fixed[uint16]{
		name:  "u16",
		span:  2,
		read:  func(d *bin.Decoder) (uint16, error) { return d.ReadUint16(binary.LittleEndian) },
		write: func(e *bin.Encoder, v uint16) error { return e.WriteUint16(v, binary.LittleEndian) },
	}
}

func U32() Field[uint32] {
	return fixed[uint32]{
		name:  "u32",
		span:  4,
		read:  func(d *bin.Decoder) (uint32, error) { return d.ReadUint32(binary.LittleEndian) },
		write: func(e *bin.Encoder, v uint32) error { return e.WriteUint32(v, binary.LittleEndian) },
	}
}

func U64() Field[uint64] {
	return fixed[uint64]{
		name:  "u64",
		span:  8,
		read:  func(d *bin.Decoder) (uint64, error) { return d.ReadUint64(binary.LittleEndian) },
		write: func(e *bin.Encoder, v uint64) error { return e.WriteUint64(v, binary.LittleEndian) },
	}
}

func I32() Field[int32] {
	return fixed[int32]{
		name:  "i32",
		span:  4,
		read:  func(d *bin.Decoder) (int32, error) { return d.ReadInt32(binary.LittleEndian) },
		write: func(e *bin.Encoder, v int32) error { return e.WriteInt32(v, binary.LittleEndian) },
	}
}

func I64() Field[int64] {
	return fixed[int64]{
		name:  "i64",
		span:  8,
		read:  func(d *bin.Decoder) (int64, error) { return d.ReadInt64(binary.LittleEndian) },
		write: func(e *bin.Encoder, v int64) error { return e.WriteInt64(v, binary.LittleEndian) },
	}
}

// AddressSpan is the width of an account address.
const AddressSpan = 32

type address struct{}

// Address is a 32-byte account address.
func Address() Field[solana.PublicKey] { return address{} }

func (address) Span() int { return AddressSpan }

func (address) Decode(b []byte, off int) (solana.PublicKey, error) {
	if err := checkBounds("address", b, off, AddressSpan); err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b[off : off+AddressSpan]), nil
}

func (address) Encode(v solana.PublicKey, b []byte, off int) (int, error) {
	if err := checkBounds("address", b, off, AddressSpan); err != nil {
		return 0, err
	}
	return copy(b[off:off+AddressSpan], v[:]), nil
}

type bigUint struct{ width int }

// Uint is an unsigned little-endian integer of the given byte width, held as
// a big integer. A nil value encodes as zero.
func Uint(width int) Field[*big.Int] { return bigUint{width: width} }

func (f bigUint) Span() int { return f.width }

func (f bigUint) Decode(b []byte, off int) (*big.Int, error) {
	if err := checkBounds(fmt.Sprintf("u%d", f.width*8), b, off, f.width); err != nil {
		return nil, err
	}
	return leToBig(b[off : off+f.width]), nil
}

func (f bigUint) Encode(v *big.Int, b []byte, off int) (int, error) {
	if err := checkBounds(fmt.Sprintf("u%d", f.width*8), b, off, f.width); err != nil {
		return 0, err
	}
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 || v.BitLen() > f.width*8 {
		return 0, fmt.Errorf("%w: %s into u%d", ErrOverflow, v, f.width*8)
	}
	bigToLE(v, b[off:off+f.width])
	return f.width, nil
}

type bigInt struct{ width int }

// Int is a two's-complement little-endian integer of the given byte width.
func Int(width int) Field[*big.Int] { return bigInt{width: width} }

func (f bigInt) Span() int { return f.width }

func (f bigInt) Decode(b []byte, off int) (*big.Int, error) {
	if err := checkBounds(fmt.Sprintf("i%d", f.width*8), b, off, f.width); err != nil {
		return nil, err
	}
	v := leToBig(b[off : off+f.width])
	bits := uint(f.width * 8)
	if v.Bit(int(bits)-1) == 1 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), bits))
	}
	return v, nil
}

func (f bigInt) Encode(v *big.Int, b []byte, off int) (int, error) {
	if err := checkBounds(fmt.Sprintf("i%d", f.width*8), b, off, f.width); err != nil {
		return 0, err
	}
	if v == nil {
		v = new(big.Int)
	}
	bits := uint(f.width * 8)
	limit := new(big.Int).Lsh(big.NewInt(1), bits-1)
	lower := new(big.Int).Neg(limit)
	if v.Cmp(lower) < 0 || v.Cmp(limit) >= 0 {
		return 0, fmt.Errorf("%w: %s into i%d", ErrOverflow, v, bits)
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), bits))
	}
	bigToLE(u, b[off:off+f.width])
	return f.width, nil
}

func leToBig(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, c := range le {
		be[len(le)-1-i] = c
	}
	return new(big.Int).SetBytes(be)
}

// bigToLE writes a non-negative v into dst, which must be wide enough.
func bigToLE(v *big.Int, dst []byte) {
	be := v.FillBytes(make([]byte, len(dst)))
	for i, c := range be {
		dst[len(dst)-1-i] = c
	}
}

type blob struct{ n int }

// Blob is an opaque run of n bytes. Encoding a shorter slice zero-fills the
// remainder.
func Blob(n int) Field[[]byte] { return blob{n: n} }

func (f blob) Span() int { return f.n }

func (f blob) Decode(b []byte, off int) ([]byte, error) {
	if err := checkBounds("blob", b, off, f.n); err != nil {
		return nil, err
	}
	out := make([]byte, f.n)
	copy(out, b[off:off+f.n])
	return out, nil
}

func (f blob) Encode(v []byte, b []byte, off int) (int, error) {
	if err := checkBounds("blob", b, off, f.n); err != nil {
		return 0, err
	}
	if len(v) > f.n {
		return 0, fmt.Errorf("%w: %d bytes into blob[%d]", ErrOverflow, len(v), f.n)
	}
	dst := b[off : off+f.n]
	n := copy(dst, v)
	clear(dst[n:])
	return f.n, nil
}

type seq[T any] struct {
	elem Field[T]
	n    int
}

// Seq is n consecutive elements of a fixed-span field.
func Seq[T any](elem Field[T], n int) Field[[]T] { return seq[T]{elem: elem, n: n} }

func (s seq[T]) Span() int { return s.elem.Span() * s.n }

func (s seq[T]) Decode(b []byte, off int) ([]T, error) {
	if err := checkBounds("seq", b, off, s.Span()); err != nil {
		return nil, err
	}
	out := make([]T, s.n)
	step := s.elem.Span()
	for i := range out {
		v, err := s.elem.Decode(b, off+i*step)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (s seq[T]) Encode(v []T, b []byte, off int) (int, error) {
	if err := checkBounds("seq", b, off, s.Span()); err != nil {
		return 0, err
	}
	if len(v) > s.n {
		return 0, fmt.Errorf("%w: %d elements into seq[%d]", ErrOverflow, len(v), s.n)
	}
	step := s.elem.Span()
	for i, e := range v {
		if _, err := s.elem.Encode(e, b, off+i*step); err != nil {
			return 0, fmt.Errorf("element %d: %w", i, err)
		}
	}
	clear(b[off+len(v)*step : off+s.Span()])
	return s.Span(), nil
}
