package jet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeReserveDerivesMarketFields(t *testing.T) {
	in := sampleReserve(t, testKey(10))
	in.Config.ManageFeeRate = 1000
	data, err := EncodeReserve(in)
	require.NoError(t, err)

	// 60 tokens borrowed, 40 tokens idle in the vault.
	r, err := DecodeReserve(in.Address, data, 40_000_000)
	require.NoError(t, err)

	require.Equal(t, "40", r.AvailableLiquidity.Text())
	require.Equal(t, "60", r.OutstandingDebt.Text())
	require.Equal(t, "100", r.MarketSize.Text())
	require.Equal(t, in.TokenMint, r.MarketSize.Mint())
	require.Equal(t, 6, r.MarketSize.Decimals())
	require.InDelta(t, 0.6, r.UtilizationRate, 1e-12)
	require.InDelta(t, 0.13333333333, r.CCRate, 1e-9)
	require.InDelta(t, r.CCRate*1.1, r.BorrowAPR, 1e-6)
	require.InDelta(t, r.CCRate*0.6, r.DepositAPY, 1e-9)
}

func TestDecodeEmptyReserveHasZeroUtilization(t *testing.T) {
	in := sampleReserve(t, testKey(10))
	in.State.OutstandingDebt = nil
	data, err := EncodeReserve(in)
	require.NoError(t, err)

	r, err := DecodeReserve(in.Address, data, 0)
	require.NoError(t, err)
	require.True(t, r.MarketSize.IsZero())
	require.Equal(t, 0.0, r.UtilizationRate)
	require.Equal(t, 0.0, r.CCRate)
	require.Equal(t, 0.0, r.DepositAPY)
}

func TestDecodeReserveKeepsFractionalDebtInUtilization(t *testing.T) {
	in := sampleReserve(t, testKey(10))
	in.State.OutstandingDebt = scaled(t, "0.5")
	data, err := EncodeReserve(in)
	require.NoError(t, err)

	r, err := DecodeReserve(in.Address, data, 1)
	require.NoError(t, err)
	require.True(t, r.OutstandingDebt.IsZero())
	require.InDelta(t, 1.0/3.0, r.UtilizationRate, 1e-12)
}
