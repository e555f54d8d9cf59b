package jet

import (
	"io"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

// Client is the high-level entrypoint for reading a Jet lending market.
// It wraps an RPC client and an Engine; everything it fetches is decoded
// into immutable snapshots.
type Client struct {
	rpc        *solanarpc.Client
	deployment Deployment
	commitment solanarpc.CommitmentType
	logger     *slog.Logger
	engine     *Engine
}

// NewClient creates a new client for the mainnet deployment. Customize via
// functional options.
func NewClient(rpc *solanarpc.Client, opts ...Option) *Client {
	c := &Client{
		rpc:        rpc,
		deployment: DefaultDeployments[NetworkMainnet],
		commitment: solanarpc.CommitmentConfirmed,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c.engine = NewEngine(c.deployment, c.logger)
	return c
}

// ProgramID returns the configured lending program ID.
func (c *Client) ProgramID() solana.PublicKey { return c.deployment.ProgramID }

// Deployment returns the deployment the client reads from.
func (c *Client) Deployment() Deployment { return c.deployment }

// Commitment returns the configured commitment level for RPC queries.
func (c *Client) Commitment() solanarpc.CommitmentType { return c.commitment }

// Logger returns the logger used by the client.
func (c *Client) Logger() *slog.Logger { return c.logger }

// Engine returns the engine used for derivation and valuation.
func (c *Client) Engine() *Engine { return c.engine }
