package jet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const deploymentsYAML = `
deployments:
  mainnet-beta:
    market: LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo
  localhost:
    rpc_url: http://127.0.0.1:8899
    program_id: D1ZN9Wj1fRSUQfCjhvnu1hqDMT7hzjzBBpi12nVniYD6
    staking_program_id: HrY9qR5TiB2xPzzvbBu5KrBorMfYGQXh9osXydz4jy9s
`

func TestParseDeployments(t *testing.T) {
	deps, err := ParseDeployments([]byte(deploymentsYAML))
	require.NoError(t, err)
	require.Len(t, deps, 2)

	mainnet := deps[NetworkMainnet]
	require.Equal(t, MainnetProgramID, mainnet.ProgramID)
	require.Equal(t, DefaultDeployments[NetworkMainnet].RPCURL, mainnet.RPCURL)
	require.Equal(t, "LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo", mainnet.Market.String())

	local := deps[NetworkLocal]
	require.Equal(t, "http://127.0.0.1:8899", local.RPCURL)
	require.Equal(t, "D1ZN9Wj1fRSUQfCjhvnu1hqDMT7hzjzBBpi12nVniYD6", local.ProgramID.String())
	require.Equal(t, "HrY9qR5TiB2xPzzvbBu5KrBorMfYGQXh9osXydz4jy9s", local.StakingProgramID.String())
}

func TestParseDeploymentsErrors(t *testing.T) {
	_, err := ParseDeployments([]byte("deployments:\n  localhost:\n    rpc_url: http://127.0.0.1:8899\n"))
	require.ErrorIs(t, err, ErrInvalidDeployment)

	_, err = ParseDeployments([]byte("deployments:\n  devnet:\n    market: not-a-key\n"))
	require.ErrorContains(t, err, "market")

	_, err = ParseDeployments([]byte("deployments: [1, 2"))
	require.Error(t, err)
}

func TestLoadDeployments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployments.yaml")
	require.NoError(t, os.WriteFile(path, []byte(deploymentsYAML), 0o600))

	deps, err := LoadDeployments(path)
	require.NoError(t, err)
	require.Contains(t, deps, NetworkLocal)

	_, err = LoadDeployments(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefaultDeploymentsValidate(t *testing.T) {
	require.NoError(t, DefaultDeployments[NetworkMainnet].Validate())
	require.NoError(t, DefaultDeployments[NetworkDevnet].Validate())
	require.ErrorIs(t, DefaultDeployments[NetworkLocal].Validate(), ErrInvalidDeployment)
}
