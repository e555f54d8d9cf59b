package jet

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/jet-lab/jet-engine-go/pkg/staking"
)

func (c *Client) stakingProgram() (solana.PublicKey, error) {
	if c.deployment.StakingProgramID.IsZero() {
		return solana.PublicKey{}, fmt.Errorf("%w: staking program id is unset", ErrInvalidDeployment)
	}
	return c.deployment.StakingProgramID, nil
}

// GetStakePool fetches the stake pool derived from seed.
func (c *Client) GetStakePool(ctx context.Context, seed string) (*staking.StakePool, error) {
	program, err := c.stakingProgram()
	if err != nil {
		return nil, err
	}
	address, err := staking.DerivePool(program, seed)
	if err != nil {
		return nil, err
	}
	data, err := c.getAccount(ctx, address.Key, program)
	if err != nil {
		return nil, err
	}
	return staking.DecodeStakePool(address.Key, data)
}

// GetStakeAccount fetches owner's stake account in pool.
func (c *Client) GetStakeAccount(ctx context.Context, pool, owner solana.PublicKey) (*staking.StakeAccount, error) {
	program, err := c.stakingProgram()
	if err != nil {
		return nil, err
	}
	address, err := staking.DeriveStakeAccount(program, pool, owner)
	if err != nil {
		return nil, err
	}
	data, err := c.getAccount(ctx, address.Key, program)
	if err != nil {
		return nil, err
	}
	return staking.DecodeStakeAccount(address.Key, data)
}
