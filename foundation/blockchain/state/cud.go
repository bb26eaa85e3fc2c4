package state

import (
	"fmt"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
	"github.com/ardanlabs/floodchain/foundation/metrics"
)

// CreateAccount generates a new account id and credits it with the faucet
// credit from genesis.
func (s *State) CreateAccount() (database.AccountID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID, err := database.NewAccountID(s.rand)
	if err != nil {
		return "", fmt.Errorf("creating account: %w", err)
	}

	s.db.AddAccount(accountID, s.genesis.FaucetCredit)
	metrics.AccountsCreated.Inc()

	s.evHandler("state: CreateAccount: account[%s]: balance[%d]", accountID, s.genesis.FaucetCredit)

	return accountID, nil
}

// AddTransaction applies the transfer to the balances and appends it to the
// mempool. Balances change when the transaction is admitted, not when it
// is mined, and nothing is reversed if it never makes it into a block.
func (s *State) AddTransaction(tx database.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.ApplyTransaction(tx); err != nil {
		metrics.TransactionsAdmitted.WithLabelValues("rejected").Inc()
		return err
	}

	n := s.mempool.Add(tx)
	metrics.TransactionsAdmitted.WithLabelValues("admitted").Inc()

	s.evHandler("state: AddTransaction: tx[%s]: mempool[%d]", tx, n)

	return nil
}

// =============================================================================

// AddKnownPeer provides the ability to add a new peer.
func (s *State) AddKnownPeer(pr *peer.Peer) bool {
	added := s.knownPeers.Add(pr)
	if added {
		metrics.ConnectedPeers.Set(float64(s.knownPeers.Len()))
	}

	return added
}

// RemoveKnownPeer removes the peer and closes its stream.
func (s *State) RemoveKnownPeer(pr *peer.Peer) {
	s.knownPeers.Remove(pr)
	pr.Close()

	metrics.ConnectedPeers.Set(float64(s.knownPeers.Len()))
}

// IsKnownPeer reports whether a peer is registered under the host.
func (s *State) IsKnownPeer(host string) bool {
	return s.knownPeers.Exists(host)
}

// CloseKnownPeers closes and removes every registered peer.
func (s *State) CloseKnownPeers() {
	for _, pr := range s.knownPeers.Copy("") {
		s.RemoveKnownPeer(pr)
	}
}
