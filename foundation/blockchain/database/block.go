package database

import (
	"errors"
	"fmt"
)

// Set of errors returned when a block fails validation.
var (
	ErrChainLinkage  = errors.New("previous hash does not match the chain tip")
	ErrBlockNumber   = errors.New("block is not the next number")
	ErrHashMismatch  = errors.New("block hash does not match its content")
	ErrHashNotSolved = errors.New("block hash does not solve the puzzle")
)

// GenesisHash is the sentinel hash of the first block in every chain. It is
// not a computed hash.
const GenesisHash = "genesis_hash"

// =============================================================================

// Block represents a group of transactions batched together. The field order
// is the canonical order used for hashing and for the wire.
type Block struct {
	Number        uint64 `json:"index"`         // Block number in the chain.
	PrevBlockHash string `json:"previous_hash"` // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`     // Unix seconds the block was constructed.
	Trans         []Tx   `json:"transactions"`  // Transactions sealed by this block.
	Nonce         uint64 `json:"nonce"`         // Value identified to solve the hash solution.
	Hash          string `json:"hash"`          // Solution to the puzzle for this block.
}

// Genesis returns the fixed first block of every chain.
func Genesis() Block {
	return Block{
		Number:        0,
		PrevBlockHash: "0",
		TimeStamp:     0,
		Trans:         []Tx{},
		Nonce:         0,
		Hash:          GenesisHash,
	}
}

// ValidateBlock takes a block and validates it to be included after the
// specified previous block.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Number)

	if b.PrevBlockHash != previousBlock.Hash {
		return fmt.Errorf("got %s, exp %s: %w", b.PrevBlockHash, previousBlock.Hash, ErrChainLinkage)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block number is the next number", b.Number)

	nextNumber := previousBlock.Number + 1
	if b.Number != nextNumber {
		return fmt.Errorf("got %d, exp %d: %w", b.Number, nextNumber, ErrBlockNumber)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash matches content", b.Number)

	hash, err := b.ComputeHash()
	if err != nil {
		return err
	}

	if hash != b.Hash {
		return fmt.Errorf("got %s, exp %s: %w", b.Hash, hash, ErrHashMismatch)
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash has been solved", b.Number)

	if !IsHashSolved(hash) {
		return fmt.Errorf("%s: %w", hash, ErrHashNotSolved)
	}

	return nil
}

// Copy returns a block that shares no memory with the original.
func (b Block) Copy() Block {
	trans := make([]Tx, len(b.Trans))
	copy(trans, b.Trans)
	b.Trans = trans

	return b
}
