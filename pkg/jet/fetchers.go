package jet

import (
	"context"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

// maxMultipleAccounts is the RPC limit on keys per getMultipleAccounts call.
const maxMultipleAccounts = 100

func (c *Client) getAccount(ctx context.Context, address, owner solana.PublicKey) ([]byte, error) {
	resp, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &solanarpc.GetAccountInfoOpts{Commitment: c.commitment})
	if errors.Is(err, solanarpc.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	if resp.Value.Owner != owner {
		return nil, &OwnerError{Account: address, Owner: resp.Value.Owner, Expected: owner}
	}
	return resp.Value.Data.GetBinary(), nil
}

// getMultiple fetches accounts in batches. Missing accounts are nil in the
// result, which is index-aligned with keys.
func (c *Client) getMultiple(ctx context.Context, keys []solana.PublicKey) ([]*solanarpc.Account, error) {
	out := make([]*solanarpc.Account, 0, len(keys))
	opts := &solanarpc.GetMultipleAccountsOpts{Commitment: c.commitment}
	for start := 0; start < len(keys); start += maxMultipleAccounts {
		end := min(start+maxMultipleAccounts, len(keys))
		multi, err := c.rpc.GetMultipleAccountsWithOpts(ctx, keys[start:end], opts)
		if err != nil {
			return nil, err
		}
		if multi == nil || len(multi.Value) != end-start {
			return nil, fmt.Errorf("%w: getMultipleAccounts returned a short result", ErrAccountNotFound)
		}
		out = append(out, multi.Value...)
	}
	return out, nil
}

func decodeTokenAccount(data []byte) (*token.Account, error) {
	var acc token.Account
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return nil, fmt.Errorf("decode token account: %w", err)
	}
	return &acc, nil
}

// GetMarket fetches and decodes a market account.
func (c *Client) GetMarket(ctx context.Context, address solana.PublicKey) (*Market, error) {
	data, err := c.getAccount(ctx, address, c.deployment.ProgramID)
	if err != nil {
		return nil, err
	}
	return DecodeMarket(address, data)
}

// GetReserves fetches every reserve in the market's populated slots together
// with its vault balance. The result is in slot order and is suitable for
// Engine.ValueObligation.
func (c *Client) GetReserves(ctx context.Context, market *Market) ([]*Reserve, error) {
	active := market.ActiveReserves()
	keys := make([]solana.PublicKey, len(active))
	for i, info := range active {
		keys[i] = info.Reserve
	}
	accounts, err := c.getMultiple(ctx, keys)
	if err != nil {
		return nil, err
	}

	vaults := make([]solana.PublicKey, len(accounts))
	for i, acct := range accounts {
		if acct == nil {
			return nil, fmt.Errorf("%w: reserve %s", ErrAccountNotFound, keys[i])
		}
		if acct.Owner != c.deployment.ProgramID {
			return nil, &OwnerError{Account: keys[i], Owner: acct.Owner, Expected: c.deployment.ProgramID}
		}
		if vaults[i], err = reserveVault(acct.Data.GetBinary()); err != nil {
			return nil, fmt.Errorf("reserve %s: %w", keys[i], err)
		}
	}
	vaultAccounts, err := c.getMultiple(ctx, vaults)
	if err != nil {
		return nil, err
	}

	reserves := make([]*Reserve, len(accounts))
	for i, acct := range accounts {
		var available uint64
		if va := vaultAccounts[i]; va != nil {
			if va.Owner != TokenProgramID {
				return nil, &OwnerError{Account: vaults[i], Owner: va.Owner, Expected: TokenProgramID}
			}
			tok, err := decodeTokenAccount(va.Data.GetBinary())
			if err != nil {
				return nil, fmt.Errorf("vault %s: %w", vaults[i], err)
			}
			available = tok.Amount
		} else {
			c.logger.Warn("reserve vault not found", "reserve", keys[i], "vault", vaults[i])
		}
		r, err := DecodeReserve(keys[i], acct.Data.GetBinary(), available)
		if err != nil {
			return nil, err
		}
		reserves[i] = r
	}
	c.logger.Debug("fetched reserves", "market", market.Address, "count", len(reserves))
	return reserves, nil
}

// GetObligation fetches owner's obligation in the configured market.
func (c *Client) GetObligation(ctx context.Context, owner solana.PublicKey) (*Obligation, error) {
	if c.deployment.Market.IsZero() {
		return nil, fmt.Errorf("%w: market is unset", ErrInvalidDeployment)
	}
	address, err := c.engine.DeriveObligation(c.deployment.Market, owner)
	if err != nil {
		return nil, err
	}
	data, err := c.getAccount(ctx, address.Key, c.deployment.ProgramID)
	if err != nil {
		return nil, err
	}
	return DecodeObligation(address.Key, data)
}

// GetUserBalances reads owner's deposit, collateral and loan note accounts
// for each reserve. Accounts that do not exist are left out of the result.
func (c *Client) GetUserBalances(ctx context.Context, market solana.PublicKey, reserves []ReserveAccounts, owner solana.PublicKey) (NoteBalances, error) {
	balances := NoteBalances{
		Deposits:   map[solana.PublicKey]uint64{},
		Collateral: map[solana.PublicKey]uint64{},
		Loans:      map[solana.PublicKey]uint64{},
	}
	keys := make([]solana.PublicKey, 0, 3*len(reserves))
	for _, r := range reserves {
		user, err := c.engine.DeriveUserAccounts(market, r, owner)
		if err != nil {
			return balances, err
		}
		keys = append(keys, user.Deposits.Key, user.Collateral.Key, user.Loan.Key)
	}
	accounts, err := c.getMultiple(ctx, keys)
	if err != nil {
		return balances, err
	}
	for i, acct := range accounts {
		if acct == nil {
			continue
		}
		tok, err := decodeTokenAccount(acct.Data.GetBinary())
		if err != nil {
			return balances, fmt.Errorf("note account %s: %w", keys[i], err)
		}
		switch i % 3 {
		case 0:
			balances.Deposits[tok.Mint] += tok.Amount
		case 1:
			balances.Collateral[tok.Mint] += tok.Amount
		default:
			balances.Loans[tok.Mint] += tok.Amount
		}
	}
	return balances, nil
}

// GetObligationSnapshot fetches the configured market, its reserves and
// owner's note balances, then values the obligation.
func (c *Client) GetObligationSnapshot(ctx context.Context, owner solana.PublicKey) (*ObligationSnapshot, error) {
	if c.deployment.Market.IsZero() {
		return nil, fmt.Errorf("%w: market is unset", ErrInvalidDeployment)
	}
	market, err := c.GetMarket(ctx, c.deployment.Market)
	if err != nil {
		return nil, err
	}
	reserves, err := c.GetReserves(ctx, market)
	if err != nil {
		return nil, err
	}
	accounts := make([]ReserveAccounts, len(reserves))
	for i, r := range reserves {
		accounts[i] = r
	}
	balances, err := c.GetUserBalances(ctx, market.Address, accounts, owner)
	if err != nil {
		return nil, err
	}
	return c.engine.ValueObligation(market, reserves, balances)
}
