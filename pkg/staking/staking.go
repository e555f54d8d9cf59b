// Package staking decodes the governance staking accounts that sit next to
// the lending market and converts between pool shares and tokens.
package staking

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"

	"github.com/jet-lab/jet-engine-go/pkg/layout"
	"github.com/jet-lab/jet-engine-go/pkg/pda"
)

const (
	StakePoolSpan        = 32 + 30 + 1 + 1 + 4*32 + 8 + 2*16
	StakeAccountSpan     = 2*32 + 4*8
	UnbondingAccountSpan = 32 + 3*8
	PoolSeedSpan         = 30
)

var ErrSeedLength = errors.New("staking: pool seed length out of range")

// SharedTokenPool is a token balance divided into shares.
type SharedTokenPool struct {
	Tokens uint64
	Shares uint64
}

// SharesToTokens converts shares at the pool's current rate, truncating. An
// empty pool converts one to one.
func (p SharedTokenPool) SharesToTokens(shares uint64) uint64 {
	if p.Shares == 0 || p.Tokens == 0 {
		return shares
	}
	return mulDiv(shares, p.Tokens, p.Shares)
}

// TokensToShares is the inverse of SharesToTokens, truncating.
func (p SharedTokenPool) TokensToShares(tokens uint64) uint64 {
	if p.Shares == 0 || p.Tokens == 0 {
		return tokens
	}
	return mulDiv(tokens, p.Shares, p.Tokens)
}

func mulDiv(x, y, d uint64) uint64 {
	z, _ := new(uint256.Int).MulDivOverflow(uint256.NewInt(x), uint256.NewInt(y), uint256.NewInt(d))
	if !z.IsUint64() {
		return ^uint64(0)
	}
	return z.Uint64()
}

type StakePool struct {
	Address solana.PublicKey

	Authority           solana.PublicKey
	Seed                []byte
	SeedLen             uint8
	BumpSeed            uint8
	TokenMint           solana.PublicKey
	StakePoolVault      solana.PublicKey
	StakeVoteMint       solana.PublicKey
	StakeCollateralMint solana.PublicKey
	UnbondPeriod        int64
	Bonded              SharedTokenPool
	Unbonding           SharedTokenPool
}

// SeedString is the pool seed without padding.
func (p *StakePool) SeedString() string {
	n := min(int(p.SeedLen), len(p.Seed))
	return string(bytes.TrimRight(p.Seed[:n], "\x00"))
}

// SharesToTokens values bonded shares.
func (p *StakePool) SharesToTokens(shares uint64) uint64 { return p.Bonded.SharesToTokens(shares) }

type StakeAccount struct {
	Address solana.PublicKey

	Owner            solana.PublicKey
	StakePool        solana.PublicKey
	BondedShares     uint64
	MintedVotes      uint64
	MintedCollateral uint64
	UnbondingShares  uint64
}

type UnbondingAccount struct {
	Address solana.PublicKey

	StakeAccount solana.PublicKey
	Shares       uint64
	Tokens       uint64
	UnbondedAt   int64
}

var sharedPool = layout.NewStruct[SharedTokenPool]("SharedTokenPool",
	layout.Bind("tokens", layout.U64(), func(p *SharedTokenPool) *uint64 { return &p.Tokens }),
	layout.Bind("shares", layout.U64(), func(p *SharedTokenPool) *uint64 { return &p.Shares }),
)

var (
	StakePoolLayout = layout.Discriminated("StakePool", layout.NewStruct[StakePool]("StakePool",
		layout.Bind("authority", layout.Address(), func(p *StakePool) *solana.PublicKey { return &p.Authority }),
		layout.Bind("seed", layout.Blob(PoolSeedSpan), func(p *StakePool) *[]byte { return &p.Seed }),
		layout.Bind("seedLen", layout.U8(), func(p *StakePool) *uint8 { return &p.SeedLen }),
		layout.Bind("bumpSeed", layout.U8(), func(p *StakePool) *uint8 { return &p.BumpSeed }),
		layout.Bind("tokenMint", layout.Address(), func(p *StakePool) *solana.PublicKey { return &p.TokenMint }),
		layout.Bind("stakePoolVault", layout.Address(), func(p *StakePool) *solana.PublicKey { return &p.StakePoolVault }),
		layout.Bind("stakeVoteMint", layout.Address(), func(p *StakePool) *solana.PublicKey { return &p.StakeVoteMint }),
		layout.Bind("stakeCollateralMint", layout.Address(), func(p *StakePool) *solana.PublicKey { return &p.StakeCollateralMint }),
		layout.Bind("unbondPeriod", layout.I64(), func(p *StakePool) *int64 { return &p.UnbondPeriod }),
		layout.Bind("bonded", sharedPool, func(p *StakePool) *SharedTokenPool { return &p.Bonded }),
		layout.Bind("unbonding", sharedPool, func(p *StakePool) *SharedTokenPool { return &p.Unbonding }),
	))

	StakeAccountLayout = layout.Discriminated("StakeAccount", layout.NewStruct[StakeAccount]("StakeAccount",
		layout.Bind("owner", layout.Address(), func(a *StakeAccount) *solana.PublicKey { return &a.Owner }),
		layout.Bind("stakePool", layout.Address(), func(a *StakeAccount) *solana.PublicKey { return &a.StakePool }),
		layout.Bind("bondedShares", layout.U64(), func(a *StakeAccount) *uint64 { return &a.BondedShares }),
		layout.Bind("mintedVotes", layout.U64(), func(a *StakeAccount) *uint64 { return &a.MintedVotes }),
		layout.Bind("mintedCollateral", layout.U64(), func(a *StakeAccount) *uint64 { return &a.MintedCollateral }),
		layout.Bind("unbondingShares", layout.U64(), func(a *StakeAccount) *uint64 { return &a.UnbondingShares }),
	))

	UnbondingAccountLayout = layout.Discriminated("UnbondingAccount", layout.NewStruct[UnbondingAccount]("UnbondingAccount",
		layout.Bind("stakeAccount", layout.Address(), func(a *UnbondingAccount) *solana.PublicKey { return &a.StakeAccount }),
		layout.Bind("shares", layout.U64(), func(a *UnbondingAccount) *uint64 { return &a.Shares }),
		layout.Bind("tokens", layout.U64(), func(a *UnbondingAccount) *uint64 { return &a.Tokens }),
		layout.Bind("unbondedAt", layout.I64(), func(a *UnbondingAccount) *int64 { return &a.UnbondedAt }),
	))
)

func DecodeStakePool(address solana.PublicKey, data []byte) (*StakePool, error) {
	p, err := StakePoolLayout.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode stake pool %s: %w", address, err)
	}
	p.Address = address
	return &p, nil
}

func DecodeStakeAccount(address solana.PublicKey, data []byte) (*StakeAccount, error) {
	a, err := StakeAccountLayout.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode stake account %s: %w", address, err)
	}
	a.Address = address
	return &a, nil
}

func DecodeUnbondingAccount(address solana.PublicKey, data []byte) (*UnbondingAccount, error) {
	a, err := UnbondingAccountLayout.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode unbonding account %s: %w", address, err)
	}
	a.Address = address
	return &a, nil
}

// DerivePool derives a stake pool from its seed string.
func DerivePool(programID solana.PublicKey, seed string) (pda.Address, error) {
	if len(seed) == 0 || len(seed) > PoolSeedSpan {
		return pda.Address{}, fmt.Errorf("%w: %d bytes", ErrSeedLength, len(seed))
	}
	return pda.Find(programID, pda.String(seed))
}

// DeriveStakeAccount derives owner's stake account in pool.
func DeriveStakeAccount(programID, pool, owner solana.PublicKey) (pda.Address, error) {
	return pda.Find(programID, pda.Key(pool), pda.Key(owner))
}

// DeriveUnbondingAccount derives an unbonding account. seed distinguishes
// concurrent unbonds of one stake account.
func DeriveUnbondingAccount(programID, stakeAccount solana.PublicKey, seed uint32) (pda.Address, error) {
	le := make([]byte, 4)
	binary.LittleEndian.PutUint32(le, seed)
	return pda.Find(programID, pda.Key(stakeAccount), pda.Bytes(le))
}
