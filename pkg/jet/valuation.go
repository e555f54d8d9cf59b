package jet

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/jet-lab/jet-engine-go/pkg/units"
)

// ValueObligation values a user's deposits, collateral and loans across every
// populated reserve slot of market.
//
// reserves holds one decoded reserve per populated slot, in slot order. Any
// disagreement between a slot and its reserve, or a count mismatch, is an
// *IntegrityError and no snapshot is produced. Unpopulated slots are skipped.
// Missing note balances count as zero.
func (e *Engine) ValueObligation(market *Market, reserves []*Reserve, balances NoteBalances) (*ObligationSnapshot, error) {
	if market == nil {
		return nil, ErrNilMarket
	}
	snap := &ObligationSnapshot{
		Market:          market.Address,
		DepositedValue:  decimal.Zero,
		CollateralValue: decimal.Zero,
		LoanedValue:     decimal.Zero,
		CollateralRatio: decimal.Zero,
		UtilizationRate: decimal.Zero,
	}

	next := 0
	for slot, info := range market.Reserves {
		if info.IsEmpty() {
			continue
		}
		if next >= len(reserves) {
			return nil, &IntegrityError{Slot: slot, Expected: info.Reserve, Reason: "no reserve record for slot"}
		}
		reserve := reserves[next]
		next++
		if reserve == nil {
			return nil, &IntegrityError{Slot: slot, Expected: info.Reserve, Reason: "nil reserve record"}
		}
		if reserve.Address != info.Reserve {
			return nil, &IntegrityError{Slot: slot, Expected: info.Reserve, Got: reserve.Address, Reason: "reserve address differs"}
		}

		pos := e.valuePosition(slot, info, reserve, balances)
		snap.Positions = append(snap.Positions, pos)
		snap.DepositedValue = snap.DepositedValue.Add(pos.DepositedValue)
		snap.CollateralValue = snap.CollateralValue.Add(pos.CollateralValue)
		snap.LoanedValue = snap.LoanedValue.Add(pos.LoanedValue)
	}
	if next != len(reserves) {
		extra := reserves[next]
		got := solana.PublicKey{}
		if extra != nil {
			got = extra.Address
		}
		return nil, &IntegrityError{Slot: -1, Got: got, Reason: "more reserve records than populated slots"}
	}

	if !snap.LoanedValue.IsZero() {
		snap.CollateralRatio = snap.DepositedValue.Div(snap.LoanedValue)
	}
	if !snap.DepositedValue.IsZero() {
		snap.UtilizationRate = snap.LoanedValue.Div(snap.DepositedValue)
	}
	return snap, nil
}

func (e *Engine) valuePosition(slot int, info ReserveInfo, reserve *Reserve, balances NoteBalances) Position {
	decimals := reserve.Decimals()
	pos := Position{
		Slot:            slot,
		Reserve:         reserve.Address,
		TokenMint:       reserve.TokenMint,
		DepositNotes:    units.FromUint64(balances.Deposits[reserve.DepositNoteMint], decimals, reserve.DepositNoteMint),
		CollateralNotes: units.FromUint64(balances.Collateral[reserve.DepositNoteMint], decimals, reserve.DepositNoteMint),
		LoanNotes:       units.FromUint64(balances.Loans[reserve.LoanNoteMint], decimals, reserve.LoanNoteMint),
		Price:           info.PriceDecimal(),
	}
	if info.Invalidated != 0 {
		e.logger.Warn("valuing reserve with invalidated market cache", "slot", slot, "reserve", reserve.Address)
	}

	pos.DepositBalance = e.notesToTokens(pos.DepositNotes, info.DepositNoteExchangeRate, reserve)
	pos.CollateralBalance = e.notesToTokens(pos.CollateralNotes, info.DepositNoteExchangeRate, reserve)
	pos.LoanBalance = e.notesToTokens(pos.LoanNotes, info.LoanNoteExchangeRate, reserve)

	pos.DepositedValue = pos.DepositBalance.Decimal().Mul(pos.Price)
	pos.CollateralValue = pos.CollateralBalance.Decimal().Mul(pos.Price)
	pos.LoanedValue = pos.LoanBalance.Decimal().Mul(pos.Price)
	return pos
}

// notesToTokens converts notes to underlying tokens at a scaled exchange
// rate. A conversion failure is logged and valued as zero.
func (e *Engine) notesToTokens(notes units.Amount, rate *big.Int, reserve *Reserve) units.Amount {
	tokens, err := notes.MulDiv(rate, NumberScale)
	if err != nil {
		e.logger.Warn("note conversion failed", "reserve", reserve.Address, "mint", notes.Mint(), "err", err)
	}
	return tokens.WithMint(reserve.TokenMint)
}
