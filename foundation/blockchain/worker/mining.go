package worker

import (
	"fmt"
	"time"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	// A nil channel blocks forever which disables interval mining.
	var tick <-chan time.Time
	if w.ticker != nil {
		tick = w.ticker.C
	}

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-tick:
			if !w.isShutdown() && w.state.QueryMempoolLength() > 0 {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation mines a block from the mempool and proposes it to
// the network.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	t := time.Now()
	block, err := w.Mine()
	if err != nil {
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: blk[%d]: duration[%v]", block.Number, time.Since(t))
}

// Mine mines the next block and then sends it to every known peer. The
// ledger is only locked while mining, never while sending.
func (w *Worker) Mine() (database.Block, error) {
	block, err := w.state.MineNewBlock()
	if err != nil {
		return database.Block{}, err
	}

	// WOW, we mined a block. Propose the new block to the network.
	if err := w.state.NetSendBlockToPeers(block, ""); err != nil {
		return database.Block{}, fmt.Errorf("proposing block: %w", err)
	}

	return block, nil
}
