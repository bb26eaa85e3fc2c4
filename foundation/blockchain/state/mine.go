package state

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/metrics"
	"github.com/goccy/go-json"
)

// ErrBlockSeen is returned when a block that was already accepted arrives
// again from a peer.
var ErrBlockSeen = errors.New("block already seen")

// =============================================================================

// MineNewBlock seals the transactions in the mempool into the next block of
// the chain. The ledger lock is held for the whole proof of work so nothing
// else can change the chain while the block is being mined.
func (s *State) MineNewBlock() (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	trans := s.mempool.Copy()

	s.evHandler("state: MineNewBlock: MINING: perform POW: trans[%d]", len(trans))

	block, err := database.POW(database.POWArgs{
		PrevBlock: s.db.LatestBlock(),
		Trans:     trans,
		EvHandler: s.evHandler,
	})
	if err != nil {
		return database.Block{}, fmt.Errorf("mining block: %w", err)
	}

	s.evHandler("state: MineNewBlock: MINING: update database: blk[%d]: hash[%s]", block.Number, block.Hash)

	// The balances were updated when the transactions entered the mempool.
	s.db.Write(block)
	s.mempool.Truncate()
	s.seen.add(block.Hash)

	metrics.BlocksMined.Inc()
	s.blockEvent(block)

	return block, nil
}

// ValidateBlock checks the block can be the next block of the chain.
func (s *State) ValidateBlock(block database.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return block.ValidateBlock(s.db.LatestBlock(), s.evHandler)
}

// ProcessProposedBlock takes a block received from a peer, validates it and
// if that passes, applies its transactions and adds the block to the chain.
// Either every transaction in the block is applied or the block is rejected.
func (s *State) ProcessProposedBlock(block database.Block) error {
	s.evHandler("state: ProcessProposedBlock: started: prevBlk[%s]: newBlk[%s]: numTrans[%d]", block.PrevBlockHash, block.Hash, len(block.Trans))
	defer s.evHandler("state: ProcessProposedBlock: completed: newBlk[%s]", block.Hash)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen.exists(block.Hash) {
		metrics.BlocksProcessed.WithLabelValues("seen").Inc()
		return ErrBlockSeen
	}

	if err := block.ValidateBlock(s.db.LatestBlock(), s.evHandler); err != nil {
		metrics.BlocksProcessed.WithLabelValues("rejected").Inc()
		return err
	}

	s.evHandler("state: ProcessProposedBlock: apply transactions")

	if err := s.db.ApplyBlock(block); err != nil {
		metrics.BlocksProcessed.WithLabelValues("rejected").Inc()
		return err
	}

	s.seen.add(block.Hash)

	metrics.BlocksProcessed.WithLabelValues("accepted").Inc()
	s.blockEvent(block)

	return nil
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(block)
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash, string(blockJSON))
}
