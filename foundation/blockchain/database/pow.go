package database

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/common"
	"github.com/goccy/go-json"
)

// difficultyPrefix is the required prefix of a hash that solves the puzzle.
// Difficulty is constant for the lifetime of the chain.
const difficultyPrefix = "0000"

// reportInterval is how often the mining loop reports progress.
const reportInterval = 100_000

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlock Block
	Trans     []Tx
	EvHandler func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. There is no way to cancel the work.
func POW(args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	// The block receives a private copy of the transactions.
	trans := make([]Tx, len(args.Trans))
	copy(trans, args.Trans)

	// Construct the block to be mined.
	nb := Block{
		Number:        args.PrevBlock.Number + 1,
		PrevBlockHash: args.PrevBlock.Hash,
		TimeStamp:     uint64(time.Now().UTC().Unix()),
		Trans:         trans,
		Nonce:         0, // Will be identified by the POW algorithm.
		Hash:          "",
	}

	// Peform the proof of work mining operation.
	if err := nb.performPOW(ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started: blk[%d]: numTrans[%d]", b.Number, len(b.Trans))
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Number)

	// Log the transactions that are a part of this potential block.
	for _, tx := range b.Trans {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	t := time.Now()

	// Loop until we find a solution for the next block.
	var attempts uint64
	for !IsHashSolved(b.Hash) {
		attempts++
		if attempts%reportInterval == 0 {
			ev("database: PerformPOW: MINING: attempts[%s]", humanize.Comma(int64(attempts)))
		}

		b.Nonce++

		hash, err := b.ComputeHash()
		if err != nil {
			return err
		}
		b.Hash = hash
	}

	ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.PrevBlockHash, b.Hash, b.Nonce)
	ev("database: PerformPOW: MINING: attempts[%s]: duration[%v]", humanize.Comma(int64(attempts)), time.Since(t))

	return nil
}

// ComputeHash returns the canonical hash for the Block. The hash field is
// blanked before hashing so a block's hash depends only on its content.
func (b Block) ComputeHash() (string, error) {
	b.Hash = ""
	if b.Trans == nil {
		b.Trans = []Tx{}
	}

	data, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("marshal block: %w", err)
	}

	digest := sha256.Sum256(data)
	return common.Bytes2Hex(digest[:]), nil
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match the difficulty prefix of 0's.
func IsHashSolved(hash string) bool {
	return strings.HasPrefix(hash, difficultyPrefix)
}
