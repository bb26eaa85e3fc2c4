package state

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
	"github.com/ardanlabs/floodchain/foundation/metrics"
)

// NetSendBlockToPeers takes the block and sends it to all known peers
// except the excluded host. A peer that fails to take the block does not
// stop delivery to the others.
func (s *State) NetSendBlockToPeers(block database.Block, excludeHost string) error {
	s.evHandler("state: NetSendBlockToPeers: started: blk[%d]", block.Number)
	defer s.evHandler("state: NetSendBlockToPeers: completed: blk[%d]", block.Number)

	line, err := database.EncodeBlock(block)
	if err != nil {
		return fmt.Errorf("encoding block: %w", err)
	}

	s.sendToPeers(line, excludeHost)

	return nil
}

// NetSendMessageToPeers sends a free form text message to all known peers
// except the excluded host.
func (s *State) NetSendMessageToPeers(msg string, excludeHost string) {
	s.evHandler("state: NetSendMessageToPeers: started")
	defer s.evHandler("state: NetSendMessageToPeers: completed")

	s.sendToPeers(database.EncodeMessage(msg), excludeHost)
}

// sendToPeers writes the line to every peer concurrently so a stalled peer
// only delays its own delivery.
func (s *State) sendToPeers(line []byte, excludeHost string) {
	peers := s.knownPeers.Copy(excludeHost)

	var wg sync.WaitGroup
	wg.Add(len(peers))

	for _, pr := range peers {
		go func(pr *peer.Peer) {
			defer wg.Done()

			if err := pr.Send(line); err != nil {
				metrics.SendFailures.Inc()
				s.evHandler("state: sendToPeers: WARNING: peer[%s]: %s", pr, err)
				return
			}

			s.evHandler("state: sendToPeers: sent to peer[%s]", pr)
		}(pr)
	}

	wg.Wait()
}
