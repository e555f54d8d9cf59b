package jet

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/jet-lab/jet-engine-go/pkg/layout"
)

// Byte spans of the on-chain records. Account spans exclude the 8-byte
// discriminator.
const (
	NumberSpan             = 24
	ReserveInfoSpan        = 384
	MarketSpan             = 16032
	ReserveConfigSpan      = 64
	ReserveStateSpan       = 512
	ReserveSpan            = 2048
	ObligationPositionSpan = 128
	ObligationSpan         = 4608
	ObligationCacheSpan    = 256
	QuoteCurrencySpan      = 15
)

func number() layout.Field[*big.Int] { return layout.Uint(NumberSpan) }

func addr[R any](name string, at func(*R) *solana.PublicKey) layout.Member[R] {
	return layout.Bind(name, layout.Address(), at)
}

var ReserveInfoLayout = layout.NewStruct[ReserveInfo]("ReserveInfo",
	addr("reserve", func(r *ReserveInfo) *solana.PublicKey { return &r.Reserve }),
	layout.Pad[ReserveInfo]("_reserved0", 80),
	layout.Bind("price", number(), func(r *ReserveInfo) **big.Int { return &r.Price }),
	layout.Bind("depositNoteExchangeRate", number(), func(r *ReserveInfo) **big.Int { return &r.DepositNoteExchangeRate }),
	layout.Bind("loanNoteExchangeRate", number(), func(r *ReserveInfo) **big.Int { return &r.LoanNoteExchangeRate }),
	layout.Bind("minCollateralRatio", number(), func(r *ReserveInfo) **big.Int { return &r.MinCollateralRatio }),
	layout.Bind("liquidationBonus", layout.U16(), func(r *ReserveInfo) *uint16 { return &r.LiquidationBonus }),
	layout.Pad[ReserveInfo]("_reserved1", 158),
	layout.Bind("lastUpdated", layout.U64(), func(r *ReserveInfo) *uint64 { return &r.LastUpdated }),
	layout.Bind("invalidated", layout.U8(), func(r *ReserveInfo) *uint8 { return &r.Invalidated }),
	layout.Pad[ReserveInfo]("_reserved2", 7),
)

var marketBody = layout.NewStruct[Market]("Market",
	layout.Bind("version", layout.U32(), func(m *Market) *uint32 { return &m.Version }),
	layout.Bind("quoteExponent", layout.I32(), func(m *Market) *int32 { return &m.QuoteExponent }),
	layout.Bind("quoteCurrency", layout.Blob(QuoteCurrencySpan), func(m *Market) *[]byte { return &m.QuoteCurrency }),
	layout.Bind("authorityBumpSeed", layout.U8(), func(m *Market) *uint8 { return &m.AuthorityBumpSeed }),
	addr("authoritySeed", func(m *Market) *solana.PublicKey { return &m.AuthoritySeed }),
	addr("marketAuthority", func(m *Market) *solana.PublicKey { return &m.MarketAuthority }),
	addr("owner", func(m *Market) *solana.PublicKey { return &m.Owner }),
	addr("quoteTokenMint", func(m *Market) *solana.PublicKey { return &m.QuoteTokenMint }),
	layout.Bind("flags", layout.U64(), func(m *Market) *uint64 { return &m.Flags }),
	layout.Pad[Market]("_reserved", 3584),
	layout.Bind("reserves", layout.Seq[ReserveInfo](ReserveInfoLayout, MaxReserves), func(m *Market) *[]ReserveInfo { return &m.Reserves }),
)

var ReserveConfigLayout = layout.NewStruct[ReserveConfig]("ReserveConfig",
	layout.Bind("utilizationRate1", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.UtilizationRate1 }),
	layout.Bind("utilizationRate2", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.UtilizationRate2 }),
	layout.Bind("borrowRate0", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.BorrowRate0 }),
	layout.Bind("borrowRate1", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.BorrowRate1 }),
	layout.Bind("borrowRate2", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.BorrowRate2 }),
	layout.Bind("borrowRate3", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.BorrowRate3 }),
	layout.Bind("minCollateralRatio", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.MinCollateralRatio }),
	layout.Bind("liquidationPremium", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.LiquidationPremium }),
	layout.Bind("manageFeeCollectionThreshold", layout.U64(), func(c *ReserveConfig) *uint64 { return &c.ManageFeeCollectionThreshold }),
	layout.Bind("manageFeeRate", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.ManageFeeRate }),
	layout.Bind("loanOriginationFee", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.LoanOriginationFee }),
	layout.Bind("liquidationSlippage", layout.U16(), func(c *ReserveConfig) *uint16 { return &c.LiquidationSlippage }),
	layout.Pad[ReserveConfig]("_reserved0", 2),
	layout.Bind("liquidationDexTradeMax", layout.U64(), func(c *ReserveConfig) *uint64 { return &c.LiquidationDexTradeMax }),
	layout.Pad[ReserveConfig]("_reserved1", 24),
)

var ReserveStateLayout = layout.NewStruct[ReserveState]("ReserveState",
	layout.Bind("accruedUntil", layout.I64(), func(s *ReserveState) *int64 { return &s.AccruedUntil }),
	layout.Bind("outstandingDebt", number(), func(s *ReserveState) **big.Int { return &s.OutstandingDebt }),
	layout.Bind("uncollectedFees", number(), func(s *ReserveState) **big.Int { return &s.UncollectedFees }),
	layout.Bind("totalDeposits", layout.U64(), func(s *ReserveState) *uint64 { return &s.TotalDeposits }),
	layout.Bind("totalDepositNotes", layout.U64(), func(s *ReserveState) *uint64 { return &s.TotalDepositNotes }),
	layout.Bind("totalLoanNotes", layout.U64(), func(s *ReserveState) *uint64 { return &s.TotalLoanNotes }),
	layout.Pad[ReserveState]("_reserved0", 416),
	layout.Bind("lastUpdated", layout.U64(), func(s *ReserveState) *uint64 { return &s.LastUpdated }),
	layout.Bind("invalidated", layout.U8(), func(s *ReserveState) *uint8 { return &s.Invalidated }),
	layout.Pad[ReserveState]("_reserved1", 7),
)

var reserveBody = layout.NewStruct[Reserve]("Reserve",
	layout.Bind("version", layout.U16(), func(r *Reserve) *uint16 { return &r.Version }),
	layout.Bind("index", layout.U16(), func(r *Reserve) *uint16 { return &r.Index }),
	layout.Bind("exponent", layout.I32(), func(r *Reserve) *int32 { return &r.Exponent }),
	addr("market", func(r *Reserve) *solana.PublicKey { return &r.Market }),
	addr("pythOraclePrice", func(r *Reserve) *solana.PublicKey { return &r.PythOraclePrice }),
	addr("pythOracleProduct", func(r *Reserve) *solana.PublicKey { return &r.PythOracleProduct }),
	addr("tokenMint", func(r *Reserve) *solana.PublicKey { return &r.TokenMint }),
	addr("depositNoteMint", func(r *Reserve) *solana.PublicKey { return &r.DepositNoteMint }),
	addr("loanNoteMint", func(r *Reserve) *solana.PublicKey { return &r.LoanNoteMint }),
	addr("vault", func(r *Reserve) *solana.PublicKey { return &r.Vault }),
	addr("feeNoteVault", func(r *Reserve) *solana.PublicKey { return &r.FeeNoteVault }),
	addr("dexSwapTokens", func(r *Reserve) *solana.PublicKey { return &r.DexSwapTokens }),
	addr("dexOpenOrders", func(r *Reserve) *solana.PublicKey { return &r.DexOpenOrders }),
	addr("dexMarket", func(r *Reserve) *solana.PublicKey { return &r.DexMarket }),
	layout.Pad[Reserve]("_reserved0", 408),
	layout.Bind("config", ReserveConfigLayout, func(r *Reserve) *ReserveConfig { return &r.Config }),
	layout.Pad[Reserve]("_reserved1", 704),
	layout.Bind("state", ReserveStateLayout, func(r *Reserve) *ReserveState { return &r.State }),
)

var ObligationPositionLayout = layout.NewStruct[ObligationPosition]("ObligationPosition",
	addr("account", func(p *ObligationPosition) *solana.PublicKey { return &p.Account }),
	layout.Bind("amount", number(), func(p *ObligationPosition) **big.Int { return &p.Amount }),
	layout.Bind("side", layout.Field[Side](sideField{}), func(p *ObligationPosition) *Side { return &p.Side }),
	layout.Bind("reserveIndex", layout.U16(), func(p *ObligationPosition) *uint16 { return &p.ReserveIndex }),
	layout.Pad[ObligationPosition]("_reserved", 66),
)

var obligationBody = layout.NewStruct[Obligation]("Obligation",
	layout.Bind("version", layout.U32(), func(o *Obligation) *uint32 { return &o.Version }),
	layout.Pad[Obligation]("_reserved0", 4),
	addr("market", func(o *Obligation) *solana.PublicKey { return &o.Market }),
	addr("owner", func(o *Obligation) *solana.PublicKey { return &o.Owner }),
	layout.Pad[Obligation]("_reserved1", 184),
	layout.Bind("cached", layout.Blob(ObligationCacheSpan), func(o *Obligation) *[]byte { return &o.Cached }),
	layout.Bind("collateral", layout.Seq[ObligationPosition](ObligationPositionLayout, MaxObligationPositions), func(o *Obligation) *[]ObligationPosition { return &o.Collateral }),
	layout.Bind("loans", layout.Seq[ObligationPosition](ObligationPositionLayout, MaxObligationPositions), func(o *Obligation) *[]ObligationPosition { return &o.Loans }),
)

// Account layouts, each prefixed by its 8-byte discriminator.
var (
	MarketLayout     = layout.Discriminated("Market", marketBody)
	ReserveLayout    = layout.Discriminated("Reserve", reserveBody)
	ObligationLayout = layout.Discriminated("Obligation", obligationBody)
)

// sideField stores Side as a little-endian u32.
type sideField struct{}

func (sideField) Span() int { return 4 }

func (sideField) Decode(b []byte, off int) (Side, error) {
	v, err := layout.U32().Decode(b, off)
	return Side(v), err
}

func (sideField) Encode(v Side, b []byte, off int) (int, error) {
	return layout.U32().Encode(uint32(v), b, off)
}

// CheckLayouts compares every record layout against its expected span.
func CheckLayouts() error {
	for _, c := range []struct {
		check func(int) error
		want  int
	}{
		{ReserveInfoLayout.AssertSpan, ReserveInfoSpan},
		{marketBody.AssertSpan, MarketSpan},
		{ReserveConfigLayout.AssertSpan, ReserveConfigSpan},
		{ReserveStateLayout.AssertSpan, ReserveStateSpan},
		{reserveBody.AssertSpan, ReserveSpan},
		{ObligationPositionLayout.AssertSpan, ObligationPositionSpan},
		{obligationBody.AssertSpan, ObligationSpan},
	} {
		if err := c.check(c.want); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	if err := CheckLayouts(); err != nil {
		panic(fmt.Sprintf("jet: %v", err))
	}
}
