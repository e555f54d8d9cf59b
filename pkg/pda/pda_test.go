package pda

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var (
	testProgram = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	testReserve = solana.MustPublicKeyFromBase58("D1ZN9Wj1fRSUQfCjhvnu1hqDMT7hzjzBBpi12nVniYD6")
	testOwner   = solana.MustPublicKeyFromBase58("HrY9qR5TiB2xPzzvbBu5KrBorMfYGQXh9osXydz4jy9s")
)

func TestFindIsDeterministic(t *testing.T) {
	first, err := Find(testProgram, String("loan"), Key(testReserve), Key(testOwner))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Find(testProgram, String("loan"), Key(testReserve), Key(testOwner))
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestFindMatchesRuntimeDerivation(t *testing.T) {
	got, err := Find(testProgram, String("vault"), Key(testReserve))
	require.NoError(t, err)

	want, bump, err := solana.FindProgramAddress([][]byte{[]byte("vault"), testReserve.Bytes()}, testProgram)
	require.NoError(t, err)
	require.Equal(t, want, got.Key)
	require.Equal(t, bump, got.Bump)
}

func TestBumpIsFirstInSearchOrder(t *testing.T) {
	seeds := []Seed{String("deposits"), Key(testReserve), Key(testOwner)}
	addr, err := Find(testProgram, seeds...)
	require.NoError(t, err)

	for bump := MaxBump; bump > int(addr.Bump); bump-- {
		_, err := Create(testProgram, uint8(bump), seeds...)
		require.Error(t, err, "bump %d should land on the curve", bump)
	}
	key, err := Create(testProgram, addr.Bump, seeds...)
	require.NoError(t, err)
	require.Equal(t, addr.Key, key)
}

func TestSeedOrderMatters(t *testing.T) {
	a, err := Find(testProgram, String("loan"), Key(testReserve), Key(testOwner))
	require.NoError(t, err)
	b, err := Find(testProgram, String("loan"), Key(testOwner), Key(testReserve))
	require.NoError(t, err)
	require.NotEqual(t, a.Key, b.Key)
}

func TestStringSeedIsNeverSniffedAsKey(t *testing.T) {
	asString := String(testReserve.String())
	asKey := Key(testReserve)
	require.Equal(t, KindString, asString.Kind)
	require.NotEqual(t, asKey.Value(), asString.Value())

	// A base58 address string is 44 bytes of UTF-8, which exceeds the seed limit.
	_, err := Find(testProgram, asString)
	require.ErrorIs(t, err, ErrSeedTooLong)

	_, err = Find(testProgram, asKey)
	require.NoError(t, err)
}

func TestSeedLimits(t *testing.T) {
	seeds := make([]Seed, MaxSeeds+1)
	for i := range seeds {
		seeds[i] = Bytes([]byte{byte(i)})
	}
	_, err := Find(testProgram, seeds...)
	require.ErrorIs(t, err, ErrTooManySeeds)

	_, err = Find(testProgram, seeds[:MaxSeeds]...)
	require.NoError(t, err)

	_, err = Find(testProgram, Bytes(make([]byte, MaxSeedLength+1)))
	require.ErrorIs(t, err, ErrSeedTooLong)
}

func TestBytesSeedCopiesInput(t *testing.T) {
	in := []byte("abc")
	s := Bytes(in)
	in[0] = 'z'
	require.Equal(t, []byte("abc"), s.Value())
}
