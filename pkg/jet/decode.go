package jet

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/jet-lab/jet-engine-go/pkg/units"
)

// DecodeMarket decodes a market account's data.
func DecodeMarket(address solana.PublicKey, data []byte) (*Market, error) {
	m, err := MarketLayout.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode market %s: %w", address, err)
	}
	m.Address = address
	return &m, nil
}

// EncodeMarket is the inverse of DecodeMarket. The address is not stored.
func EncodeMarket(m *Market) ([]byte, error) { return MarketLayout.Encode(*m) }

// DecodeReserve decodes a reserve account and computes its derived fields.
// vaultAmount is the token balance of the reserve's vault, which is the
// liquidity available to borrow.
func DecodeReserve(address solana.PublicKey, data []byte, vaultAmount uint64) (*Reserve, error) {
	r, err := ReserveLayout.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode reserve %s: %w", address, err)
	}
	r.Address = address
	r.derive(vaultAmount)
	return &r, nil
}

func EncodeReserve(r *Reserve) ([]byte, error) { return ReserveLayout.Encode(*r) }

// DecodeObligation decodes a user obligation account.
func DecodeObligation(address solana.PublicKey, data []byte) (*Obligation, error) {
	o, err := ObligationLayout.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode obligation %s: %w", address, err)
	}
	o.Address = address
	return &o, nil
}

func EncodeObligation(o *Obligation) ([]byte, error) { return ObligationLayout.Encode(*o) }

// reserveVault reads the vault address out of raw reserve data so a caller
// can fetch the vault before decoding the whole reserve.
func reserveVault(data []byte) (solana.PublicKey, error) {
	off, ok := ReserveLayout.FieldOffset("vault")
	if !ok || len(data) < int(off)+32 {
		return solana.PublicKey{}, fmt.Errorf("reserve vault: %d bytes of data", len(data))
	}
	return solana.PublicKeyFromBytes(data[off : off+32]), nil
}

func (r *Reserve) derive(vaultAmount uint64) {
	decimals := r.Decimals()
	r.AvailableLiquidity = units.FromUint64(vaultAmount, decimals, r.TokenMint)

	debt := new(big.Int)
	if r.State.OutstandingDebt != nil {
		debt.Quo(r.State.OutstandingDebt, NumberScale)
	}
	r.OutstandingDebt = units.New(debt, decimals, r.TokenMint)
	r.MarketSize, _ = r.OutstandingDebt.Add(r.AvailableLiquidity)

	r.UtilizationRate = utilization(numberToDecimal(r.State.OutstandingDebt), decimal.NewFromBigInt(new(big.Int).SetUint64(vaultAmount), 0))
	r.CCRate, r.BorrowAPR, r.DepositAPY = rates(r.Config, r.UtilizationRate)
}

// utilization is debt / (debt + available), zero for an empty reserve.
func utilization(debt, available decimal.Decimal) float64 {
	size := debt.Add(available)
	if size.IsZero() {
		return 0
	}
	u, _ := debt.Div(size).Float64()
	return u
}
