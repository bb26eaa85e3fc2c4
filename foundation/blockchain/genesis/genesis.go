// Package genesis maintains access to the genesis file.
package genesis

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// FaucetCredit is the balance given to every account created by a node.
const FaucetCredit = 50

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time         `json:"date"`
	FaucetCredit uint64            `json:"faucet_credit"` // Balance given to every newly created account.
	Balances     map[string]uint64 `json:"balances"`      // Accounts every node starts with.
}

// Default returns the genesis used when no genesis file is provided.
func Default() Genesis {
	return Genesis{
		FaucetCredit: FaucetCredit,
		Balances:     make(map[string]uint64),
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Every node on the same network
// must load the same file so blocks moving pre-funded balances validate.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, fmt.Errorf("reading genesis: %w", err)
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if genesis.FaucetCredit == 0 {
		genesis.FaucetCredit = FaucetCredit
	}

	if genesis.Balances == nil {
		genesis.Balances = make(map[string]uint64)
	}

	return genesis, nil
}
