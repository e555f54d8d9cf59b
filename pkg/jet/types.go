package jet

import (
	"bytes"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/jet-lab/jet-engine-go/pkg/units"
)

// Fields typed *big.Int in this file are 24-byte Numbers scaled by NumberScale
// unless noted otherwise.

// ReserveInfo is a market's cached summary of one reserve slot.
type ReserveInfo struct {
	Reserve                 solana.PublicKey
	Price                   *big.Int
	DepositNoteExchangeRate *big.Int
	LoanNoteExchangeRate    *big.Int
	MinCollateralRatio      *big.Int
	LiquidationBonus        uint16
	LastUpdated             uint64
	Invalidated             uint8
}

// IsEmpty reports whether the slot is unused. Unused slots carry the
// all-zero address.
func (r ReserveInfo) IsEmpty() bool { return r.Reserve.IsZero() }

// PriceDecimal is the cached price in quote currency per whole token.
func (r ReserveInfo) PriceDecimal() decimal.Decimal { return numberToDecimal(r.Price) }

// Market is a decoded lending market account.
type Market struct {
	Address solana.PublicKey

	Version           uint32
	QuoteExponent     int32
	QuoteCurrency     []byte
	AuthorityBumpSeed uint8
	AuthoritySeed     solana.PublicKey
	MarketAuthority   solana.PublicKey
	Owner             solana.PublicKey
	QuoteTokenMint    solana.PublicKey
	Flags             uint64
	Reserves          []ReserveInfo
}

// QuoteCurrencyName returns the quote currency label without trailing NULs.
func (m *Market) QuoteCurrencyName() string {
	return string(bytes.TrimRight(m.QuoteCurrency, "\x00"))
}

// ActiveReserves returns the populated slots in slot order.
func (m *Market) ActiveReserves() []ReserveInfo {
	out := make([]ReserveInfo, 0, len(m.Reserves))
	for _, r := range m.Reserves {
		if !r.IsEmpty() {
			out = append(out, r)
		}
	}
	return out
}

// ReserveConfig holds the rate model and fee parameters of a reserve, all in
// basis points except the two u64 thresholds.
type ReserveConfig struct {
	UtilizationRate1             uint16
	UtilizationRate2             uint16
	BorrowRate0                  uint16
	BorrowRate1                  uint16
	BorrowRate2                  uint16
	BorrowRate3                  uint16
	MinCollateralRatio           uint16
	LiquidationPremium           uint16
	ManageFeeCollectionThreshold uint64
	ManageFeeRate                uint16
	LoanOriginationFee           uint16
	LiquidationSlippage          uint16
	LiquidationDexTradeMax       uint64
}

// ReserveState is the reserve's accrual state.
type ReserveState struct {
	AccruedUntil      int64
	OutstandingDebt   *big.Int
	UncollectedFees   *big.Int
	TotalDeposits     uint64
	TotalDepositNotes uint64
	TotalLoanNotes    uint64
	LastUpdated       uint64
	Invalidated       uint8
}

// Reserve is a decoded reserve account plus values derived from it when it
// was decoded. A Reserve is an immutable snapshot.
type Reserve struct {
	Address solana.PublicKey

	Version           uint16
	Index             uint16
	Exponent          int32
	Market            solana.PublicKey
	PythOraclePrice   solana.PublicKey
	PythOracleProduct solana.PublicKey
	TokenMint         solana.PublicKey
	DepositNoteMint   solana.PublicKey
	LoanNoteMint      solana.PublicKey
	Vault             solana.PublicKey
	FeeNoteVault      solana.PublicKey
	DexSwapTokens     solana.PublicKey
	DexOpenOrders     solana.PublicKey
	DexMarket         solana.PublicKey
	Config            ReserveConfig
	State             ReserveState

	AvailableLiquidity units.Amount
	OutstandingDebt    units.Amount
	MarketSize         units.Amount
	UtilizationRate    float64
	CCRate             float64
	BorrowAPR          float64
	DepositAPY         float64
}

// Decimals is the token precision, taken from the reserve exponent.
func (r *Reserve) Decimals() int {
	if r.Exponent >= 0 {
		return 0
	}
	return int(-r.Exponent)
}

func (r *Reserve) ReserveAddress() solana.PublicKey { return r.Address }
func (r *Reserve) TokenMintAddress() solana.PublicKey { return r.TokenMint }
func (r *Reserve) DepositNoteMintAddress() solana.PublicKey { return r.DepositNoteMint }
func (r *Reserve) LoanNoteMintAddress() solana.PublicKey { return r.LoanNoteMint }
func (r *Reserve) VaultAddress() solana.PublicKey { return r.Vault }

// Side is the kind of an obligation position.
type Side uint32

const (
	SideCollateral Side = iota
	SideLoan
)

func (s Side) String() string {
	if s == SideLoan {
		return "loan"
	}
	return "collateral"
}

// ObligationPosition is one collateral or loan slot of an obligation.
type ObligationPosition struct {
	Account      solana.PublicKey
	Amount       *big.Int
	Side         Side
	ReserveIndex uint16
}

func (p ObligationPosition) IsEmpty() bool { return p.Account.IsZero() }

// Notes returns the position's note count with the Number scale removed.
func (p ObligationPosition) Notes() *big.Int {
	if p.Amount == nil {
		return new(big.Int)
	}
	return new(big.Int).Quo(p.Amount, NumberScale)
}

// Obligation is a decoded user obligation account.
type Obligation struct {
	Address solana.PublicKey

	Version    uint32
	Market     solana.PublicKey
	Owner      solana.PublicKey
	Cached     []byte
	Collateral []ObligationPosition
	Loans      []ObligationPosition
}

// NoteBalances are a user's note token balances keyed by note mint. Deposits
// and Collateral are keyed by the reserve's deposit note mint, Loans by its
// loan note mint. A missing mint counts as zero.
type NoteBalances struct {
	Deposits   map[solana.PublicKey]uint64
	Collateral map[solana.PublicKey]uint64
	Loans      map[solana.PublicKey]uint64
}

// Position is the valuation of a user's holdings in one reserve.
type Position struct {
	Slot      int
	Reserve   solana.PublicKey
	TokenMint solana.PublicKey

	DepositNotes    units.Amount
	CollateralNotes units.Amount
	LoanNotes       units.Amount

	DepositBalance    units.Amount
	CollateralBalance units.Amount
	LoanBalance       units.Amount

	Price           decimal.Decimal
	DepositedValue  decimal.Decimal
	CollateralValue decimal.Decimal
	LoanedValue     decimal.Decimal
}

// ObligationSnapshot aggregates positions across every populated reserve slot.
type ObligationSnapshot struct {
	Market    solana.PublicKey
	Positions []Position

	DepositedValue  decimal.Decimal
	CollateralValue decimal.Decimal
	LoanedValue     decimal.Decimal

	// CollateralRatio is DepositedValue / LoanedValue, zero without loans.
	CollateralRatio decimal.Decimal
	// UtilizationRate is LoanedValue / DepositedValue, zero without deposits.
	UtilizationRate decimal.Decimal
}

// Healthy reports whether the obligation meets minRatio. An obligation
// without loans is always healthy.
func (s *ObligationSnapshot) Healthy(minRatio decimal.Decimal) bool {
	if s.LoanedValue.IsZero() {
		return true
	}
	return s.CollateralRatio.GreaterThanOrEqual(minRatio)
}

func numberToDecimal(n *big.Int) decimal.Decimal {
	if n == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n, -NumberDecimals)
}
