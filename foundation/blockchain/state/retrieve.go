package state

import (
	"sort"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveMempool returns a copy of the mempool.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves the sorted hosts of the known peers.
func (s *State) RetrieveKnownPeers() []string {
	hosts := s.knownPeers.Hosts()
	sort.Strings(hosts)

	return hosts
}

// RetrieveStatus returns the status of this node.
func (s *State) RetrieveStatus() peer.PeerStatus {
	latest := s.db.LatestBlock()

	return peer.PeerStatus{
		LatestBlockHash:   latest.Hash,
		LatestBlockNumber: latest.Number,
		KnownPeers:        s.RetrieveKnownPeers(),
	}
}
