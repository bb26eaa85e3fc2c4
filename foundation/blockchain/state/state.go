// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"crypto/rand"
	"io"
	"sync"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/floodchain/foundation/blockchain/mempool"
	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
)

// seenCapacity is the number of recently accepted block hashes remembered
// to stop a block from being flooded around a cycle of peers.
const seenCapacity = 1024

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks and peers.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and peer connections.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	Genesis    genesis.Genesis
	Rand       io.Reader
	Host       string
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// State manages the blockchain database.
type State struct {
	mu sync.Mutex

	host      string
	rand      io.Reader
	evHandler EventHandler

	knownPeers *peer.PeerSet
	genesis    genesis.Genesis
	db         *database.Database
	mempool    *mempool.Mempool
	seen       *seenCache

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	gen := cfg.Genesis
	if gen.FaucetCredit == 0 {
		gen.FaucetCredit = genesis.FaucetCredit
	}

	// Access the in memory database for the blockchain which applies
	// the genesis balances.
	db, err := database.New(gen)
	if err != nil {
		return nil, err
	}

	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.Reader
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	// Create the State to provide support for managing the blockchain.
	state := State{
		host:      cfg.Host,
		rand:      rnd,
		evHandler: ev,

		knownPeers: knownPeers,
		genesis:    gen,
		db:         db,
		mempool:    mempool.New(),
		seen:       newSeenCache(seenCapacity),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Truncate resets the chain, accounts and mempool back to genesis.
func (s *State) Truncate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mempool.Truncate()
	s.seen.reset()

	return s.db.Reset()
}
