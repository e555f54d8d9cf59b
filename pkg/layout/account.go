package layout

import (
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// DiscriminatorSpan is the width of the Anchor account type tag.
const DiscriminatorSpan = 8

// Account is a record layout preceded by the 8-byte Anchor discriminator,
// the first bytes of sha256("account:<Name>").
type Account[R any] struct {
	name string
	disc bin.TypeID
	body *Struct[R]
}

// Discriminated wraps body with the discriminator for accountName, which must
// be the program's struct name exactly as declared.
func Discriminated[R any](accountName string, body *Struct[R]) *Account[R] {
	return &Account[R]{
		name: accountName,
		disc: accountDiscriminator(accountName),
		body: body,
	}
}

func accountDiscriminator(name string) bin.TypeID {
	sum := sha256.Sum256([]byte("account:" + name))
	return bin.TypeIDFromBytes(sum[:DiscriminatorSpan])
}

func (a *Account[R]) Name() string { return a.name }

// Span is the full account size including the discriminator.
func (a *Account[R]) Span() int { return DiscriminatorSpan + a.body.Span() }

// Body returns the layout that follows the discriminator.
func (a *Account[R]) Body() *Struct[R] { return a.body }

// Discriminator returns the expected type tag.
func (a *Account[R]) Discriminator() [DiscriminatorSpan]byte { return [DiscriminatorSpan]byte(a.disc) }

// Decode checks the discriminator and decodes the body. Trailing bytes past
// Span are ignored.
func (a *Account[R]) Decode(data []byte) (R, error) {
	var zero R
	if err := checkBounds(a.name, data, 0, a.Span()); err != nil {
		return zero, err
	}
	if got := bin.TypeIDFromBytes(data[:DiscriminatorSpan]); got != a.disc {
		return zero, fmt.Errorf("%w: %s has %x, want %x", ErrDiscriminator, a.name, got[:], a.disc[:])
	}
	return a.body.Decode(data, DiscriminatorSpan)
}

// Encode writes the discriminator followed by v.
func (a *Account[R]) Encode(v R) ([]byte, error) {
	out := make([]byte, a.Span())
	copy(out, a.disc[:])
	if _, err := a.body.Encode(v, out, DiscriminatorSpan); err != nil {
		return nil, err
	}
	return out, nil
}

// FieldOffset is the absolute offset of a body member, suitable for memcmp
// filters on program account queries.
func (a *Account[R]) FieldOffset(name string) (uint64, bool) {
	off, ok := a.body.Offset(name)
	if !ok {
		return 0, false
	}
	return uint64(DiscriminatorSpan + off), true
}
