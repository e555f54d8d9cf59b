package jet

import (
	"errors"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
)

// Deployment names the program and market a client or engine operates on.
// It is passed in at construction time; nothing in the package reads
// process-wide state.
type Deployment struct {
	Network          Network
	RPCURL           string
	ProgramID        solana.PublicKey
	Market           solana.PublicKey
	StakingProgramID solana.PublicKey
}

// Validate checks the fields every derivation and fetch depends on.
func (d Deployment) Validate() error {
	var errs []error
	if d.ProgramID.IsZero() {
		errs = append(errs, errors.New("program id is unset"))
	}
	if d.Network == "" {
		errs = append(errs, errors.New("network is unset"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDeployment, errors.Join(errs...))
	}
	return nil
}

type deploymentFile struct {
	Deployments map[string]deploymentEntry `yaml:"deployments"`
}

type deploymentEntry struct {
	RPCURL           string `yaml:"rpc_url"`
	ProgramID        string `yaml:"program_id"`
	Market           string `yaml:"market"`
	StakingProgramID string `yaml:"staking_program_id"`
}

// ParseDeployments reads a YAML document of the form
//
//	deployments:
//	  mainnet-beta:
//	    rpc_url: https://api.mainnet-beta.solana.com
//	    program_id: JPv1rCqrhagNNmJVM5J1he7msQ5ybtvE1nNuHpDHMNU
//	    market: <address>
//
// Entries start from DefaultDeployments for their network, so a file only
// needs to name what differs.
func ParseDeployments(data []byte) (map[Network]Deployment, error) {
	var file deploymentFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse deployments: %w", err)
	}
	out := make(map[Network]Deployment, len(file.Deployments))
	for name, entry := range file.Deployments {
		network := Network(name)
		dep, ok := DefaultDeployments[network]
		if !ok {
			dep = Deployment{Network: network}
		}
		if entry.RPCURL != "" {
			dep.RPCURL = entry.RPCURL
		}
		for _, f := range []struct {
			field string
			value string
			dst   *solana.PublicKey
		}{
			{"program_id", entry.ProgramID, &dep.ProgramID},
			{"market", entry.Market, &dep.Market},
			{"staking_program_id", entry.StakingProgramID, &dep.StakingProgramID},
		} {
			if f.value == "" {
				continue
			}
			key, err := solana.PublicKeyFromBase58(f.value)
			if err != nil {
				return nil, fmt.Errorf("deployment %s: %s: %w", name, f.field, err)
			}
			*f.dst = key
		}
		if err := dep.Validate(); err != nil {
			return nil, fmt.Errorf("deployment %s: %w", name, err)
		}
		out[network] = dep
	}
	return out, nil
}

// LoadDeployments reads and parses a deployments file.
func LoadDeployments(path string) (map[Network]Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deployments: %w", err)
	}
	return ParseDeployments(data)
}
