// Package database handles all the lower level support for maintaining the
// blockchain in memory. This includes the chain of blocks and the account
// balances produced by the transactions in those blocks.
package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ardanlabs/floodchain/foundation/blockchain/genesis"
)

// ErrNotFound is returned when a block number is not part of the chain.
var ErrNotFound = errors.New("block not found")

// =============================================================================

// Database manages the chain of blocks and the accounts who have transacted
// on the blockchain. Nothing is written to disk.
type Database struct {
	mu sync.RWMutex

	genesis  genesis.Genesis
	blocks   []Block
	accounts map[AccountID]uint64
}

// New constructs a new database and applies the account genesis information.
func New(gen genesis.Genesis) (*Database, error) {
	db := Database{
		genesis: gen,
	}

	if err := db.reset(); err != nil {
		return nil, err
	}

	return &db, nil
}

// Reset re-initializes the database back to the genesis state.
func (db *Database) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.reset()
}

// reset performs the reset without taking the lock.
func (db *Database) reset() error {
	accounts := make(map[AccountID]uint64)
	for accountStr, balance := range db.genesis.Balances {
		accountID, err := ToAccountID(accountStr)
		if err != nil {
			return fmt.Errorf("genesis account %q: %w", accountStr, err)
		}
		accounts[accountID] = balance
	}

	db.blocks = []Block{Genesis()}
	db.accounts = accounts

	return nil
}

// =============================================================================

// AddAccount inserts the account with the specified balance. An existing
// account with the same id is replaced.
func (db *Database) AddAccount(accountID AccountID, balance uint64) Account {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.accounts[accountID] = balance
	return newAccount(accountID, balance)
}

// Query returns the account for the specified id.
func (db *Database) Query(accountID AccountID) (Account, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	balance, exists := db.accounts[accountID]
	if !exists {
		return Account{}, ErrUnknownAccount
	}

	return newAccount(accountID, balance), nil
}

// Balance returns the balance for the specified account or 0 if the account
// is unknown.
func (db *Database) Balance(accountID AccountID) uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.accounts[accountID]
}

// CopyAccounts makes a copy of the current accounts in the database sorted
// by account id.
func (db *Database) CopyAccounts() []Account {
	db.mu.RLock()
	defer db.mu.RUnlock()

	accounts := make([]Account, 0, len(db.accounts))
	for accountID, balance := range db.accounts {
		accounts = append(accounts, newAccount(accountID, balance))
	}
	sort.Sort(byAccount(accounts))

	return accounts
}

// ApplyTransaction performs the business logic for applying a transaction
// to the database. Nothing changes if the transaction fails.
func (db *Database) ApplyTransaction(tx Tx) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return applyTx(db.accounts, tx)
}

// =============================================================================

// LatestBlock returns the tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1].Copy()
}

// Write appends a block to the chain without touching the accounts. This is
// used for blocks mined by this node whose transactions were applied when
// they were admitted to the mempool.
func (db *Database) Write(block Block) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.blocks = append(db.blocks, block.Copy())
}

// ApplyBlock applies every transaction in the block and appends the block
// to the chain. The transactions are staged so either all of them are
// applied or none of them are.
func (db *Database) ApplyBlock(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	staged := make(map[AccountID]uint64)
	for i, tx := range block.Trans {
		for _, accountID := range []AccountID{tx.FromID, tx.ToID} {
			if _, exists := staged[accountID]; exists {
				continue
			}
			if balance, exists := db.accounts[accountID]; exists {
				staged[accountID] = balance
			}
		}

		if err := applyTx(staged, tx); err != nil {
			return fmt.Errorf("blk[%d]: tx[%d]: %w", block.Number, i, err)
		}
	}

	for accountID, balance := range staged {
		db.accounts[accountID] = balance
	}
	db.blocks = append(db.blocks, block.Copy())

	return nil
}

// CopyChain returns a copy of every block in the chain including genesis.
func (db *Database) CopyChain() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	for i, block := range db.blocks {
		blocks[i] = block.Copy()
	}

	return blocks
}

// GetBlock returns the block for the specified number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.blocks)) {
		return Block{}, ErrNotFound
	}

	return db.blocks[num].Copy(), nil
}

// GetBlocks returns the blocks in the range of from to to inclusive. The
// range is clamped to the blocks that exist.
func (db *Database) GetBlocks(from uint64, to uint64) []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	last := uint64(len(db.blocks) - 1)
	if to > last {
		to = last
	}

	var blocks []Block
	for num := from; num <= to; num++ {
		blocks = append(blocks, db.blocks[num].Copy())
	}

	return blocks
}
