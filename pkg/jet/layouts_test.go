package jet

import (
	"math/big"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/jet-lab/jet-engine-go/pkg/layout"
)

func TestLayoutSpans(t *testing.T) {
	require.NoError(t, CheckLayouts())
	require.Equal(t, 8+MarketSpan, MarketLayout.Span())
	require.Equal(t, 8+ReserveSpan, ReserveLayout.Span())
	require.Equal(t, 8+ObligationSpan, ObligationLayout.Span())
}

func TestFieldOffsets(t *testing.T) {
	for _, tc := range []struct {
		offset func(string) (uint64, bool)
		field  string
		want   uint64
	}{
		{ObligationLayout.FieldOffset, "market", 16},
		{ObligationLayout.FieldOffset, "owner", 48},
		{ObligationLayout.FieldOffset, "collateral", 8 + 512},
		{ReserveLayout.FieldOffset, "market", 16},
		{ReserveLayout.FieldOffset, "vault", 8 + 8 + 6*32},
		{ReserveLayout.FieldOffset, "config", 8 + 768},
		{ReserveLayout.FieldOffset, "state", 8 + 1536},
		{MarketLayout.FieldOffset, "reserves", 8 + 3744},
	} {
		got, ok := tc.offset(tc.field)
		require.True(t, ok, tc.field)
		require.Equal(t, tc.want, got, tc.field)
	}
}

func sampleMarket(t *testing.T) *Market {
	reserves := make([]ReserveInfo, MaxReserves)
	reserves[0] = ReserveInfo{
		Reserve:                 testKey(10),
		Price:                   scaled(t, "1.0001"),
		DepositNoteExchangeRate: scaled(t, "1.02"),
		LoanNoteExchangeRate:    scaled(t, "1.05"),
		MinCollateralRatio:      scaled(t, "1.25"),
		LiquidationBonus:        500,
		LastUpdated:             1234,
	}
	reserves[3] = ReserveInfo{
		Reserve:     testKey(11),
		Price:       scaled(t, "23.5"),
		Invalidated: 1,
	}
	return &Market{
		Address:           testKey(1),
		Version:           1,
		QuoteExponent:     -6,
		QuoteCurrency:     append([]byte("USD"), make([]byte, QuoteCurrencySpan-3)...),
		AuthorityBumpSeed: 254,
		AuthoritySeed:     testKey(2),
		MarketAuthority:   testKey(3),
		Owner:             testKey(4),
		QuoteTokenMint:    testKey(5),
		Flags:             0b101,
		Reserves:          reserves,
	}
}

func TestMarketRoundTrip(t *testing.T) {
	in := sampleMarket(t)
	data, err := EncodeMarket(in)
	require.NoError(t, err)
	require.Len(t, data, MarketLayout.Span())

	out, err := DecodeMarket(in.Address, data)
	require.NoError(t, err)
	require.Equal(t, in.Address, out.Address)
	require.Equal(t, in.Version, out.Version)
	require.Equal(t, in.QuoteExponent, out.QuoteExponent)
	require.Equal(t, "USD", out.QuoteCurrencyName())
	require.Equal(t, in.AuthorityBumpSeed, out.AuthorityBumpSeed)
	require.Equal(t, in.MarketAuthority, out.MarketAuthority)
	require.Equal(t, in.QuoteTokenMint, out.QuoteTokenMint)
	require.Equal(t, in.Flags, out.Flags)
	require.Len(t, out.Reserves, MaxReserves)

	active := out.ActiveReserves()
	require.Len(t, active, 2)
	require.Equal(t, testKey(10), active[0].Reserve)
	requireBig(t, in.Reserves[0].Price, active[0].Price)
	requireBig(t, in.Reserves[0].DepositNoteExchangeRate, active[0].DepositNoteExchangeRate)
	requireBig(t, in.Reserves[0].LoanNoteExchangeRate, active[0].LoanNoteExchangeRate)
	requireBig(t, in.Reserves[0].MinCollateralRatio, active[0].MinCollateralRatio)
	require.Equal(t, uint16(500), active[0].LiquidationBonus)
	require.Equal(t, uint64(1234), active[0].LastUpdated)
	require.Equal(t, testKey(11), active[1].Reserve)
	require.Equal(t, uint8(1), active[1].Invalidated)
	require.Equal(t, "23.5", active[1].PriceDecimal().String())
}

func sampleReserve(t *testing.T, address solana.PublicKey) *Reserve {
	return &Reserve{
		Address:           address,
		Version:           2,
		Index:             3,
		Exponent:          -6,
		Market:            testKey(1),
		PythOraclePrice:   testKey(20),
		PythOracleProduct: testKey(21),
		TokenMint:         testKey(22),
		DepositNoteMint:   testKey(23),
		LoanNoteMint:      testKey(24),
		Vault:             testKey(25),
		FeeNoteVault:      testKey(26),
		DexSwapTokens:     testKey(27),
		DexOpenOrders:     testKey(28),
		DexMarket:         testKey(29),
		Config:            rateConfig(),
		State: ReserveState{
			AccruedUntil:      1_700_000_000,
			OutstandingDebt:   scaled(t, "60000000"),
			UncollectedFees:   scaled(t, "12.5"),
			TotalDeposits:     40_000_000,
			TotalDepositNotes: 39_000_000,
			TotalLoanNotes:    58_000_000,
			LastUpdated:       99,
		},
	}
}

func TestReserveRoundTrip(t *testing.T) {
	in := sampleReserve(t, testKey(10))
	in.Config.ManageFeeRate = 1000
	in.Config.ManageFeeCollectionThreshold = 1 << 40
	in.Config.LiquidationDexTradeMax = 1 << 50

	data, err := EncodeReserve(in)
	require.NoError(t, err)
	require.Len(t, data, ReserveLayout.Span())

	out, err := DecodeReserve(in.Address, data, 40_000_000)
	require.NoError(t, err)
	require.Equal(t, in.Address, out.Address)
	require.Equal(t, in.Version, out.Version)
	require.Equal(t, in.Index, out.Index)
	require.Equal(t, in.Exponent, out.Exponent)
	require.Equal(t, 6, out.Decimals())
	require.Equal(t, in.Vault, out.Vault)
	require.Equal(t, in.DexMarket, out.DexMarket)
	require.Equal(t, in.Config, out.Config)
	require.Equal(t, in.State.AccruedUntil, out.State.AccruedUntil)
	requireBig(t, in.State.OutstandingDebt, out.State.OutstandingDebt)
	requireBig(t, in.State.UncollectedFees, out.State.UncollectedFees)
	require.Equal(t, in.State.TotalDepositNotes, out.State.TotalDepositNotes)
	require.Equal(t, in.State.TotalLoanNotes, out.State.TotalLoanNotes)
	require.Equal(t, in.State.LastUpdated, out.State.LastUpdated)

	vault, err := reserveVault(data)
	require.NoError(t, err)
	require.Equal(t, in.Vault, vault)
}

func TestObligationRoundTrip(t *testing.T) {
	in := &Obligation{
		Address:    testKey(40),
		Version:    1,
		Market:     testKey(1),
		Owner:      testKey(41),
		Cached:     make([]byte, ObligationCacheSpan),
		Collateral: []ObligationPosition{{Account: testKey(42), Amount: scaled(t, "150"), Side: SideCollateral, ReserveIndex: 0}},
		Loans:      []ObligationPosition{{Account: testKey(43), Amount: scaled(t, "75.5"), Side: SideLoan, ReserveIndex: 3}},
	}
	in.Cached[0] = 0xff

	data, err := EncodeObligation(in)
	require.NoError(t, err)

	out, err := DecodeObligation(in.Address, data)
	require.NoError(t, err)
	require.Equal(t, in.Market, out.Market)
	require.Equal(t, in.Owner, out.Owner)
	require.Equal(t, in.Cached, out.Cached)
	require.Len(t, out.Collateral, MaxObligationPositions)
	require.Len(t, out.Loans, MaxObligationPositions)

	require.Equal(t, testKey(42), out.Collateral[0].Account)
	require.Equal(t, "150", out.Collateral[0].Notes().String())
	require.True(t, out.Collateral[1].IsEmpty())
	require.Equal(t, SideLoan, out.Loans[0].Side)
	require.Equal(t, uint16(3), out.Loans[0].ReserveIndex)
	requireBig(t, in.Loans[0].Amount, out.Loans[0].Amount)
	require.Equal(t, "75", out.Loans[0].Notes().String())
}

func TestObligationPositionSideIsU32(t *testing.T) {
	off, ok := ObligationPositionLayout.Offset("side")
	require.True(t, ok)
	require.Equal(t, layout.AddressSpan+NumberSpan, off)

	data, err := ObligationPositionLayout.EncodeBytes(ObligationPosition{Amount: big.NewInt(0), Side: SideLoan})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 0, 0}, data[off:off+4])

	out, err := ObligationPositionLayout.DecodeBytes(data)
	require.NoError(t, err)
	require.Equal(t, SideLoan, out.Side)
}

func TestDecodeRejectsWrongAccount(t *testing.T) {
	data, err := EncodeMarket(sampleMarket(t))
	require.NoError(t, err)

	_, err = DecodeReserve(testKey(1), data, 0)
	require.ErrorIs(t, err, layout.ErrDiscriminator)

	_, err = DecodeObligation(testKey(1), data[:100])
	require.ErrorIs(t, err, layout.ErrShortBuffer)
}

func TestEncodeRejectsOversizedNumber(t *testing.T) {
	m := sampleMarket(t)
	m.Reserves[0].Price = new(big.Int).Lsh(big.NewInt(1), 8*NumberSpan)
	_, err := EncodeMarket(m)
	require.ErrorIs(t, err, layout.ErrOverflow)
}
