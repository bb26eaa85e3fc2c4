package state

import (
	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryBalance returns the balance of the account or 0 if the account
// is unknown.
func (s *State) QueryBalance(accountID database.AccountID) uint64 {
	return s.db.Balance(accountID)
}

// QueryAccount returns a copy of the account from the database.
func (s *State) QueryAccount(accountID database.AccountID) (database.Account, error) {
	return s.db.Query(accountID)
}

// QueryAccounts returns a copy of every account sorted by account id.
func (s *State) QueryAccounts() []database.Account {
	return s.db.CopyAccounts()
}

// QueryMempoolLength returns the current length of the mempool.
func (s *State) QueryMempoolLength() int {
	return s.mempool.Count()
}

// QueryChain returns a copy of the full chain including genesis.
func (s *State) QueryChain() []database.Block {
	return s.db.CopyChain()
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	latest := s.db.LatestBlock().Number

	if from == QueryLatest {
		from = latest
	}
	if to == QueryLatest {
		to = latest
	}

	if from > to || from > latest {
		return nil
	}

	return s.db.GetBlocks(from, to)
}
