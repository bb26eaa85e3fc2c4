package worker_test

import (
	"fmt"
	"net"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
	"github.com/ardanlabs/floodchain/foundation/blockchain/state"
	"github.com/ardanlabs/floodchain/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Accounts funded by the shared genesis.
const (
	kennedy = "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"
	pavel   = "0f1e2d3c4b5a69788796a5b4c3d2e1f00f1e2d3c4b5a69788796a5b4c3d2e1f0"
)

// node bundles a running state and worker along with the viewer events
// the node produced.
type node struct {
	state  *state.State
	worker *worker.Worker

	mu     sync.Mutex
	events []string
}

func (n *node) ev(v string, args ...any) {
	s := fmt.Sprintf(v, args...)
	if strings.HasPrefix(s, "viewer:") {
		n.mu.Lock()
		n.events = append(n.events, s)
		n.mu.Unlock()
	}
}

func (n *node) hasEvent(prefix string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, e := range n.events {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

func startNode(t *testing.T, knownPeers ...string) *node {
	return startNodeWithConns(t, 4, knownPeers...)
}

func startNodeWithConns(t *testing.T, maxConns int, knownPeers ...string) *node {
	gen := genesis.Genesis{
		FaucetCredit: 50,
		Balances:     map[string]uint64{kennedy: 100},
	}

	var n node

	st, err := state.New(state.Config{
		Genesis:   gen,
		Host:      "127.0.0.1:0",
		EvHandler: n.ev,
	})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %v", err)
	}

	w, err := worker.Run(st, worker.Config{
		Host:       "127.0.0.1:0",
		KnownPeers: knownPeers,
		MaxConns:   maxConns,
		Dial:       peer.DialConfig{Attempts: 3, Delay: 50 * time.Millisecond, Timeout: time.Second},
		EvHandler:  n.ev,
	})
	if err != nil {
		t.Fatalf("Should be able to start the worker: %v", err)
	}

	n.state = st
	n.worker = w
	t.Cleanup(func() { st.Shutdown() })

	return &n
}

// waitFor polls the condition until it holds or the timeout passes.
func waitFor(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

// =============================================================================

func Test_Propagation(t *testing.T) {
	t.Log("Given the need to keep two nodes on the same chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen node 1 mines a block.", testID)
		{
			node1 := startNode(t)
			node2 := startNode(t, node1.worker.Addr())
			node1.worker.AddPeer(node2.worker.Addr())

			linked := waitFor(5*time.Second, func() bool {
				return len(node1.state.RetrieveKnownPeers()) == 2 && len(node2.state.RetrieveKnownPeers()) == 2
			})
			if !linked {
				t.Fatalf("\t%s\tTest %d:\tShould link the nodes in both directions.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould link the nodes in both directions.", success, testID)

			if err := node1.state.AddTransaction(database.NewTx(kennedy, pavel, 30)); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to add a transaction: %v", failed, testID, err)
			}

			block, err := node1.worker.Mine()
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine block %d.", success, testID, block.Number)

			synced := waitFor(5*time.Second, func() bool {
				return reflect.DeepEqual(node1.state.QueryChain(), node2.state.QueryChain())
			})
			if !synced {
				t.Fatalf("\t%s\tTest %d:\tShould have equal chains on both nodes.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have equal chains on both nodes.", success, testID)

			if node2.state.QueryBalance(kennedy) != 70 || node2.state.QueryBalance(pavel) != 30 {
				t.Fatalf("\t%s\tTest %d:\tShould apply the transaction on node 2.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould apply the transaction on node 2.", success, testID)

			// Let any echo of the block come back around.
			time.Sleep(100 * time.Millisecond)
			if n := len(node1.state.QueryChain()); n != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould not grow node 1 from its own block: got %d blocks", failed, testID, n)
			}
			t.Logf("\t%s\tTest %d:\tShould not grow node 1 from its own block.", success, testID)
		}
	}
}

func Test_Messages(t *testing.T) {
	t.Log("Given the need to send text messages between nodes.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen node 1 broadcasts a message.", testID)
		{
			node1 := startNode(t)
			node2 := startNode(t, node1.worker.Addr())

			linked := waitFor(5*time.Second, func() bool {
				return len(node1.state.RetrieveKnownPeers()) == 1
			})
			if !linked {
				t.Fatalf("\t%s\tTest %d:\tShould accept the inbound connection.", failed, testID)
			}

			node1.state.NetSendMessageToPeers("hello node 2", "")

			received := waitFor(5*time.Second, func() bool {
				return node2.hasEvent("viewer: message:")
			})
			if !received {
				t.Fatalf("\t%s\tTest %d:\tShould receive the message on node 2.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould receive the message on node 2.", success, testID)

			if len(node2.state.QueryChain()) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould not change the chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not change the chain.", success, testID)
		}
	}
}

func Test_AddPeer(t *testing.T) {
	t.Log("Given the need to connect to peers.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the peer is already connected.", testID)
		{
			node1 := startNode(t)
			node2 := startNode(t)

			node1.worker.AddPeer(node2.worker.Addr())
			node1.worker.AddPeer(node2.worker.Addr())

			if hosts := node1.state.RetrieveKnownPeers(); len(hosts) != 1 || hosts[0] != node2.worker.Addr() {
				t.Fatalf("\t%s\tTest %d:\tShould register the peer once: %v", failed, testID, hosts)
			}
			t.Logf("\t%s\tTest %d:\tShould register the peer once under its host.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the peer goes away.", testID)
		{
			node1 := startNode(t)
			node2 := startNode(t)

			node1.worker.AddPeer(node2.worker.Addr())
			node2.state.Shutdown()

			removed := waitFor(5*time.Second, func() bool {
				return len(node1.state.RetrieveKnownPeers()) == 0
			})
			if !removed {
				t.Fatalf("\t%s\tTest %d:\tShould remove the peer.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould remove the peer.", success, testID)
		}
	}
}

func Test_MaxConns(t *testing.T) {
	t.Log("Given the need to bound the inbound connections being served.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen a second peer connects to a node serving one connection.", testID)
		{
			node1 := startNodeWithConns(t, 1)

			conn1, err := net.Dial("tcp", node1.worker.Addr())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to connect: %v", failed, testID, err)
			}
			defer conn1.Close()

			registered := waitFor(5*time.Second, func() bool {
				return node1.state.IsKnownPeer(conn1.LocalAddr().String())
			})
			if !registered {
				t.Fatalf("\t%s\tTest %d:\tShould register the first connection.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould register the first connection.", success, testID)

			conn2, err := net.Dial("tcp", node1.worker.Addr())
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to connect: %v", failed, testID, err)
			}
			defer conn2.Close()

			time.Sleep(250 * time.Millisecond)
			if node1.state.IsKnownPeer(conn2.LocalAddr().String()) {
				t.Fatalf("\t%s\tTest %d:\tShould hold the second connection while the slot is taken.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould hold the second connection while the slot is taken.", success, testID)

			conn1.Close()

			registered = waitFor(5*time.Second, func() bool {
				hosts := node1.state.RetrieveKnownPeers()
				return len(hosts) == 1 && hosts[0] == conn2.LocalAddr().String()
			})
			if !registered {
				t.Fatalf("\t%s\tTest %d:\tShould register the second connection once the first closes: %v", failed, testID, node1.state.RetrieveKnownPeers())
			}
			t.Logf("\t%s\tTest %d:\tShould register the second connection once the first closes.", success, testID)
		}
	}
}
