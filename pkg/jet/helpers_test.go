package jet

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

var testProgram = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")

func testKey(n byte) solana.PublicKey {
	var b [32]byte
	b[0] = n
	b[31] = 0xa5
	return solana.PublicKeyFromBytes(b[:])
}

// scaled returns v * 10^15 for a decimal string v such as "1.05".
func scaled(t *testing.T, v string) *big.Int {
	t.Helper()
	r, ok := new(big.Rat).SetString(v)
	require.True(t, ok, v)
	r.Mul(r, new(big.Rat).SetInt(NumberScale))
	require.True(t, r.IsInt(), v)
	return new(big.Int).Set(r.Num())
}

func requireBig(t *testing.T, want, got *big.Int, msgAndArgs ...any) {
	t.Helper()
	if want == nil {
		want = new(big.Int)
	}
	require.NotNil(t, got, msgAndArgs...)
	require.Equal(t, want.String(), got.String(), msgAndArgs...)
}

func testEngine() *Engine {
	return NewEngine(Deployment{Network: NetworkLocal, ProgramID: testProgram}, nil)
}

func rateConfig() ReserveConfig {
	return ReserveConfig{
		UtilizationRate1: 5000,
		UtilizationRate2: 8000,
		BorrowRate0:      0,
		BorrowRate1:      1000,
		BorrowRate2:      2000,
		BorrowRate3:      10000,
	}
}
