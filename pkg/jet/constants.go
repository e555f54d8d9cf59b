package jet

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

// Network represents a Solana cluster name used by the SDK.
type Network string

const (
	NetworkMainnet Network = "mainnet-beta"
	NetworkDevnet  Network = "devnet"
	NetworkLocal   Network = "localhost"
)

// Scalar constants shared with the on-chain program.
const (
	// BasisPointMax is the denominator for every rate and fee in a ReserveConfig.
	BasisPointMax = 10_000
	// NumberDecimals is the fixed-point precision of 24-byte Number fields.
	NumberDecimals = 15
	// SecondsPerYear is the annualization constant used by the rate model.
	SecondsPerYear = 365 * 24 * 60 * 60
	// MaxReserves is the number of reserve slots in a market.
	MaxReserves = 32
	// MaxObligationPositions is the number of collateral (and loan) slots in an obligation.
	MaxObligationPositions = 16
)

// NumberScale is 10^15, the divisor for exchange rates, prices and every
// other 24-byte Number. Using any other scale corrupts every balance derived
// from it.
var NumberScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(NumberDecimals), nil)

// Seed tags, in the order they appear at the head of each derivation.
const (
	SeedVault         = "vault"
	SeedFeeVault      = "fee-vault"
	SeedDeposits      = "deposits"
	SeedLoans         = "loans"
	SeedDexSwapTokens = "dex-swap-tokens"
	SeedDexOpenOrders = "dex-open-orders"
	SeedObligation    = "obligation"
	SeedCollateral    = "collateral"
	SeedLoanAccount   = "loan"
)

var (
	SystemProgramID = solana.MustPublicKeyFromBase58("11111111111111111111111111111111")
	TokenProgramID  = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

// MainnetProgramID is the lending program on mainnet-beta and devnet.
var MainnetProgramID = solana.MustPublicKeyFromBase58("JPv1rCqrhagNNmJVM5J1he7msQ5ybtvE1nNuHpDHMNU")

// DefaultDeployments maps each network to its deployment. Market addresses
// are left unset; callers supply the market they want to read.
var DefaultDeployments = map[Network]Deployment{
	NetworkMainnet: {Network: NetworkMainnet, RPCURL: solanarpc.MainNetBeta_RPC, ProgramID: MainnetProgramID},
	NetworkDevnet:  {Network: NetworkDevnet, RPCURL: solanarpc.DevNet_RPC, ProgramID: MainnetProgramID},
	NetworkLocal:   {Network: NetworkLocal, RPCURL: solanarpc.LocalNet_RPC},
}
