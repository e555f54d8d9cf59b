package jet

import (
	"log/slog"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

// Option configures a Client.
type Option func(*Client)

// WithDeployment replaces the whole deployment.
func WithDeployment(d Deployment) Option {
	return func(c *Client) { c.deployment = d }
}

// WithProgramID overrides only the lending program ID.
func WithProgramID(programID solana.PublicKey) Option {
	return func(c *Client) { c.deployment.ProgramID = programID }
}

// WithMarket sets the market used by calls that do not take one explicitly.
func WithMarket(market solana.PublicKey) Option {
	return func(c *Client) { c.deployment.Market = market }
}

// WithCommitment sets the default RPC commitment.
func WithCommitment(commitment solanarpc.CommitmentType) Option {
	return func(c *Client) { c.commitment = commitment }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}
