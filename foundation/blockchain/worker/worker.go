// Package worker implements mining and the peer to peer network for the
// blockchain.
package worker

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
	"github.com/ardanlabs/floodchain/foundation/blockchain/state"
)

// defaultMaxConns is the number of inbound connections served at the same
// time when no limit is configured.
const defaultMaxConns = 64

// =============================================================================

// Config represents the configuration for the network and mining workflows.
type Config struct {
	Host         string
	KnownPeers   []string
	MaxConns     int
	Dial         peer.DialConfig
	MineInterval time.Duration
	EvHandler    state.EventHandler
}

// Worker manages the POW and peer workflows for the blockchain.
type Worker struct {
	state       *state.State
	listener    net.Listener
	conns       chan struct{}
	dial        peer.DialConfig
	wg          sync.WaitGroup
	ticker      *time.Ticker
	shut        chan struct{}
	shutOnce    sync.Once
	startMining chan bool
	evHandler   state.EventHandler
}

// Run creates a worker, binds the peer listener, registers the worker with
// the state package, and starts up all the background processes.
func Run(st *state.State, cfg Config) (*Worker, error) {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}

	listener, err := net.Listen("tcp", cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", cfg.Host, err)
	}

	w := Worker{
		state:       st,
		listener:    listener,
		conns:       make(chan struct{}, maxConns),
		dial:        cfg.Dial,
		shut:        make(chan struct{}),
		startMining: make(chan bool, 1),
		evHandler:   ev,
	}

	if cfg.MineInterval > 0 {
		w.ticker = time.NewTicker(cfg.MineInterval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.acceptOperations,
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	// Connect to the known peers in the background since a dial can take
	// a while to give up.
	for _, host := range cfg.KnownPeers {
		if host == "" || host == w.Addr() {
			continue
		}

		w.wg.Add(1)
		go func(host string) {
			defer w.wg.Done()
			w.AddPeer(host)
		}(host)
	}

	return &w, nil
}

// Addr returns the address the peer listener is bound to.
func (w *Worker) Addr() string {
	return w.listener.Addr().String()
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work. A mining operation
// that is in progress runs to completion first.
func (w *Worker) Shutdown() {
	w.shutOnce.Do(func() {
		w.evHandler("worker: shutdown: started")
		defer w.evHandler("worker: shutdown: completed")

		if w.ticker != nil {
			w.evHandler("worker: shutdown: stop ticker")
			w.ticker.Stop()
		}

		w.evHandler("worker: shutdown: terminate goroutines")
		close(w.shut)

		w.evHandler("worker: shutdown: close listener")
		w.listener.Close()

		w.evHandler("worker: shutdown: close peer connections")
		w.state.CloseKnownPeers()

		w.wg.Wait()
	})
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
