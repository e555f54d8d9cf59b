package jet

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

// ObligationQuery selects obligation accounts by market and/or owner.
type ObligationQuery struct {
	Market *solana.PublicKey
	Owner  *solana.PublicKey
	Limit  uint64
}

// obligationFilters builds memcmp filters on the discriminator and, when set,
// the market and owner fields.
func obligationFilters(q ObligationQuery) []solanarpc.RPCFilter {
	disc := ObligationLayout.Discriminator()
	filters := []solanarpc.RPCFilter{
		{DataSize: uint64(ObligationLayout.Span())},
		memcmpFilter(0, disc[:]),
	}
	if q.Market != nil {
		off, _ := ObligationLayout.FieldOffset("market")
		filters = append(filters, memcmpFilter(off, q.Market.Bytes()))
	}
	if q.Owner != nil {
		off, _ := ObligationLayout.FieldOffset("owner")
		filters = append(filters, memcmpFilter(off, q.Owner.Bytes()))
	}
	return filters
}

// QueryObligations lists obligation accounts matching q. A zero Limit
// defaults to 25.
func (c *Client) QueryObligations(ctx context.Context, q ObligationQuery) ([]*Obligation, error) {
	limit := q.Limit
	if limit == 0 {
		limit = 25
	}
	accs, err := c.rpc.GetProgramAccountsWithOpts(ctx, c.deployment.ProgramID, &solanarpc.GetProgramAccountsOpts{
		Commitment: c.commitment,
		Filters:    obligationFilters(q),
	})
	if err != nil {
		return nil, err
	}
	if limit < uint64(len(accs)) {
		accs = accs[:limit]
	}

	out := make([]*Obligation, 0, len(accs))
	for _, a := range accs {
		if a == nil || a.Account == nil {
			continue
		}
		o, err := DecodeObligation(a.Pubkey, a.Account.Data.GetBinary())
		if err != nil {
			return nil, fmt.Errorf("query obligations: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}

// GetObligationsByMarket returns obligations in market.
func (c *Client) GetObligationsByMarket(ctx context.Context, market solana.PublicKey) ([]*Obligation, error) {
	return c.QueryObligations(ctx, ObligationQuery{Market: &market, Limit: 100})
}

// GetObligationsByOwner returns owner's obligations across every market.
func (c *Client) GetObligationsByOwner(ctx context.Context, owner solana.PublicKey) ([]*Obligation, error) {
	return c.QueryObligations(ctx, ObligationQuery{Owner: &owner, Limit: 50})
}

// memcmpFilter helper to construct an RPC memcmp filter.
func memcmpFilter(offset uint64, bytes []byte) solanarpc.RPCFilter {
	return solanarpc.RPCFilter{Memcmp: &solanarpc.RPCFilterMemcmp{Offset: offset, Bytes: bytes}}
}
