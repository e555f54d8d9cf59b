// Package pda derives program-owned account addresses.
//
// Seeds are tagged with their kind when constructed so a string that happens
// to look like a base58 address is never silently reinterpreted as key bytes.
package pda

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const (
	// MaxSeeds is the number of seeds accepted by the runtime, excluding the bump.
	MaxSeeds = 15
	// MaxSeedLength is the longest single seed in bytes.
	MaxSeedLength = 32
	// MaxBump is where the canonical search starts.
	MaxBump = 255
)

var (
	ErrTooManySeeds = errors.New("pda: too many seeds")
	ErrSeedTooLong  = errors.New("pda: seed exceeds 32 bytes")
	ErrNoViableBump = errors.New("pda: unable to find a viable program address bump")
)

// Kind tells how a seed's bytes were produced.
type Kind uint8

const (
	KindBytes Kind = iota
	KindKey
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindString:
		return "string"
	default:
		return "bytes"
	}
}

// Seed is one tagged component of a derivation.
type Seed struct {
	Kind  Kind
	value []byte
}

// Bytes is a raw byte seed. The slice is copied.
func Bytes(b []byte) Seed { return Seed{Kind: KindBytes, value: append([]byte(nil), b...)} }

// Key is an address seed contributing its 32 raw bytes.
func Key(k solana.PublicKey) Seed { return Seed{Kind: KindKey, value: k.Bytes()} }

// String is a UTF-8 seed taken literally, even if it parses as an address.
func String(s string) Seed { return Seed{Kind: KindString, value: []byte(s)} }

// Value returns a copy of the seed bytes.
func (s Seed) Value() []byte { return append([]byte(nil), s.value...) }

func (s Seed) String() string {
	if s.Kind == KindKey {
		return solana.PublicKeyFromBytes(s.value).String()
	}
	if s.Kind == KindString {
		return fmt.Sprintf("%q", string(s.value))
	}
	return fmt.Sprintf("%x", s.value)
}

// Address is a derived account address together with the bump that produced it.
type Address struct {
	Key  solana.PublicKey
	Bump uint8
}

func validate(seeds []Seed) ([][]byte, error) {
	if len(seeds) > MaxSeeds {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManySeeds, len(seeds), MaxSeeds)
	}
	raw := make([][]byte, 0, len(seeds)+1)
	for i, s := range seeds {
		if len(s.value) > MaxSeedLength {
			return nil, fmt.Errorf("%w: seed %d (%s) is %d bytes", ErrSeedTooLong, i, s.Kind, len(s.value))
		}
		raw = append(raw, s.value)
	}
	return raw, nil
}

// Find returns the first off-curve address in the runtime's canonical search
// order, which walks the bump from 255 down to 0. The search is bounded to
// those 256 candidates.
func Find(programID solana.PublicKey, seeds ...Seed) (Address, error) {
	raw, err := validate(seeds)
	if err != nil {
		return Address{}, err
	}
	bumpSeed := make([]byte, 1)
	candidate := append(raw, bumpSeed)
	for bump := MaxBump; bump >= 0; bump-- {
		bumpSeed[0] = uint8(bump)
		key, err := solana.CreateProgramAddress(candidate, programID)
		if err == nil {
			return Address{Key: key, Bump: uint8(bump)}, nil
		}
	}
	return Address{}, fmt.Errorf("%w: program %s seeds %v", ErrNoViableBump, programID, seeds)
}

// Create computes the address for an explicit bump. It fails if that bump
// lands on the curve.
func Create(programID solana.PublicKey, bump uint8, seeds ...Seed) (solana.PublicKey, error) {
	raw, err := validate(seeds)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.CreateProgramAddress(append(raw, []byte{bump}), programID)
}

// MustFind is Find for static inputs; it panics on error.
func MustFind(programID solana.PublicKey, seeds ...Seed) Address {
	addr, err := Find(programID, seeds...)
	if err != nil {
		panic(err)
	}
	return addr
}
