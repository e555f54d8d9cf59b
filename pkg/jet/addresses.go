package jet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/jet-lab/jet-engine-go/pkg/pda"
)

// ReserveAccounts is the set of reserve addresses the valuation and
// derivation code reads. Both a decoded *Reserve and DerivedReserveAccounts
// satisfy it.
type ReserveAccounts interface {
	ReserveAddress() solana.PublicKey
	TokenMintAddress() solana.PublicKey
	DepositNoteMintAddress() solana.PublicKey
	LoanNoteMintAddress() solana.PublicKey
	VaultAddress() solana.PublicKey
}

// DerivedReserveAccounts are the program addresses belonging to a reserve,
// computed from the reserve and its token mint alone.
type DerivedReserveAccounts struct {
	Reserve         solana.PublicKey
	TokenMint       solana.PublicKey
	Vault           pda.Address
	FeeNoteVault    pda.Address
	DepositNoteMint pda.Address
	LoanNoteMint    pda.Address
	DexSwapTokens   pda.Address
	DexOpenOrders   pda.Address
}

func (d *DerivedReserveAccounts) ReserveAddress() solana.PublicKey { return d.Reserve }
func (d *DerivedReserveAccounts) TokenMintAddress() solana.PublicKey { return d.TokenMint }
func (d *DerivedReserveAccounts) DepositNoteMintAddress() solana.PublicKey { return d.DepositNoteMint.Key }
func (d *DerivedReserveAccounts) LoanNoteMintAddress() solana.PublicKey { return d.LoanNoteMint.Key }
func (d *DerivedReserveAccounts) VaultAddress() solana.PublicKey { return d.Vault.Key }

// UserAccounts are a user's program addresses for one reserve.
type UserAccounts struct {
	Obligation pda.Address
	Deposits   pda.Address
	Collateral pda.Address
	Loan       pda.Address
}

func (e *Engine) find(what string, seeds ...pda.Seed) (pda.Address, error) {
	a, err := pda.Find(e.deployment.ProgramID, seeds...)
	if err != nil {
		return pda.Address{}, fmt.Errorf("derive %s: %w", what, err)
	}
	return a, nil
}

// DeriveReserveAccounts derives every program-owned account of a reserve.
func (e *Engine) DeriveReserveAccounts(reserve, tokenMint solana.PublicKey) (*DerivedReserveAccounts, error) {
	out := &DerivedReserveAccounts{Reserve: reserve, TokenMint: tokenMint}
	for _, d := range []struct {
		name  string
		dst   *pda.Address
		seeds []pda.Seed
	}{
		{"vault", &out.Vault, []pda.Seed{pda.String(SeedVault), pda.Key(reserve)}},
		{"fee vault", &out.FeeNoteVault, []pda.Seed{pda.String(SeedFeeVault), pda.Key(reserve)}},
		{"deposit note mint", &out.DepositNoteMint, []pda.Seed{pda.String(SeedDeposits), pda.Key(reserve), pda.Key(tokenMint)}},
		{"loan note mint", &out.LoanNoteMint, []pda.Seed{pda.String(SeedLoans), pda.Key(reserve), pda.Key(tokenMint)}},
		{"dex swap tokens", &out.DexSwapTokens, []pda.Seed{pda.String(SeedDexSwapTokens), pda.Key(reserve)}},
		{"dex open orders", &out.DexOpenOrders, []pda.Seed{pda.String(SeedDexOpenOrders), pda.Key(reserve)}},
	} {
		a, err := e.find(d.name, d.seeds...)
		if err != nil {
			return nil, err
		}
		*d.dst = a
	}
	return out, nil
}

// DeriveMarketAuthority derives the signer authority of a market.
func (e *Engine) DeriveMarketAuthority(market solana.PublicKey) (pda.Address, error) {
	return e.find("market authority", pda.Key(market))
}

// DeriveObligation derives the obligation account of owner in market.
func (e *Engine) DeriveObligation(market, owner solana.PublicKey) (pda.Address, error) {
	return e.find("obligation", pda.String(SeedObligation), pda.Key(market), pda.Key(owner))
}

// DeriveUserAccounts derives owner's obligation and note accounts for reserve.
func (e *Engine) DeriveUserAccounts(market solana.PublicKey, reserve ReserveAccounts, owner solana.PublicKey) (*UserAccounts, error) {
	obligation, err := e.DeriveObligation(market, owner)
	if err != nil {
		return nil, err
	}
	r := reserve.ReserveAddress()
	deposits, err := e.find("deposit account", pda.String(SeedDeposits), pda.Key(r), pda.Key(owner))
	if err != nil {
		return nil, err
	}
	collateral, err := e.find("collateral account", pda.String(SeedCollateral), pda.Key(r), pda.Key(obligation.Key), pda.Key(owner))
	if err != nil {
		return nil, err
	}
	loan, err := e.find("loan account", pda.String(SeedLoanAccount), pda.Key(r), pda.Key(obligation.Key), pda.Key(owner))
	if err != nil {
		return nil, err
	}
	return &UserAccounts{Obligation: obligation, Deposits: deposits, Collateral: collateral, Loan: loan}, nil
}

// VerifyReserveAccounts re-derives a decoded reserve's vault and note mints
// and reports the first stored address that differs.
func (e *Engine) VerifyReserveAccounts(r *Reserve) error {
	derived, err := e.DeriveReserveAccounts(r.Address, r.TokenMint)
	if err != nil {
		return err
	}
	for _, c := range []struct {
		name    string
		stored  solana.PublicKey
		derived solana.PublicKey
	}{
		{"vault", r.Vault, derived.Vault.Key},
		{"fee note vault", r.FeeNoteVault, derived.FeeNoteVault.Key},
		{"deposit note mint", r.DepositNoteMint, derived.DepositNoteMint.Key},
		{"loan note mint", r.LoanNoteMint, derived.LoanNoteMint.Key},
	} {
		if c.stored != c.derived {
			return fmt.Errorf("%w: reserve %s %s is %s, derived %s", ErrDerivedMismatch, r.Address, c.name, c.stored, c.derived)
		}
	}
	return nil
}
