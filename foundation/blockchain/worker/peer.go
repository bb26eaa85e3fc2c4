package worker

import (
	"bufio"
	"bytes"
	"errors"
	"net"

	"github.com/ardanlabs/floodchain/foundation/blockchain/database"
	"github.com/ardanlabs/floodchain/foundation/blockchain/peer"
	"github.com/ardanlabs/floodchain/foundation/blockchain/state"
	"github.com/ardanlabs/floodchain/foundation/metrics"
)

// maxLineSize is the largest line a peer can send.
const maxLineSize = 1 << 20

// =============================================================================

// AddPeer connects to the host and starts reading from it. Nothing happens if
// a peer is already registered under the host. A host that can't be reached
// after the configured attempts is only logged.
func (w *Worker) AddPeer(host string) {
	if w.isShutdown() || w.state.IsKnownPeer(host) {
		return
	}

	conn, err := peer.Dial(host, w.dial, w.evHandler)
	if err != nil {
		w.evHandler("worker: AddPeer: WARNING: %s", err)
		return
	}

	w.evHandler("worker: AddPeer: connected: peer[%s]", host)

	w.registerPeer(peer.New(host, conn), nil)
}

// acceptOperations accepts inbound peer connections. The number of
// connections being served is bounded so new connections wait until a
// slot is released.
func (w *Worker) acceptOperations() {
	w.evHandler("worker: acceptOperations: G started: host[%s]", w.Addr())
	defer w.evHandler("worker: acceptOperations: G completed")

	for {
		select {
		case w.conns <- struct{}{}:
		case <-w.shut:
			w.evHandler("worker: acceptOperations: received shut signal")
			return
		}

		conn, err := w.listener.Accept()
		if err != nil {
			<-w.conns

			if errors.Is(err, net.ErrClosed) || w.isShutdown() {
				w.evHandler("worker: acceptOperations: listener closed")
				return
			}

			w.evHandler("worker: acceptOperations: WARNING: %s", err)
			continue
		}

		host := conn.RemoteAddr().String()
		w.evHandler("worker: acceptOperations: accepted: peer[%s]", host)

		w.registerPeer(peer.New(host, conn), func() { <-w.conns })
	}
}

// registerPeer adds the peer to the known peers and starts its reader.
// Release is called once the peer is done.
func (w *Worker) registerPeer(pr *peer.Peer, release func()) {
	if release == nil {
		release = func() {}
	}

	if !w.state.AddKnownPeer(pr) {
		w.evHandler("worker: registerPeer: already connected: peer[%s]", pr)
		pr.Close()
		release()
		return
	}

	// Shutdown may have already closed the known peers.
	if w.isShutdown() {
		w.state.RemoveKnownPeer(pr)
		release()
		return
	}

	w.wg.Add(1)
	go func() {
		defer func() {
			release()
			w.wg.Done()
		}()

		w.readOperations(pr)
	}()
}

// readOperations reads lines from the peer until the stream fails. The
// peer is removed from the known peers when that happens.
func (w *Worker) readOperations(pr *peer.Peer) {
	w.evHandler("worker: readOperations: G started: peer[%s]", pr)
	defer w.evHandler("worker: readOperations: G completed: peer[%s]", pr)

	defer w.state.RemoveKnownPeer(pr)

	scanner := bufio.NewScanner(pr.Reader())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		w.processLine(pr, scanner.Bytes())
	}

	if err := scanner.Err(); err != nil && !w.isShutdown() {
		w.evHandler("worker: readOperations: peer[%s]: ERROR: %s", pr, err)
	}
}

// processLine handles a single line from a peer. Blocks that are accepted
// are flooded to every other peer and anything that isn't a block is
// treated as a text message.
func (w *Worker) processLine(pr *peer.Peer, line []byte) {
	block, err := database.DecodeBlock(line)
	if err != nil {
		msg := string(bytes.TrimSpace(line))
		if msg == "" {
			return
		}

		metrics.MessagesReceived.Inc()
		w.evHandler("viewer: message: peer[%s]: %s", pr, msg)
		return
	}

	if err := w.state.ProcessProposedBlock(block); err != nil {
		if errors.Is(err, state.ErrBlockSeen) {
			w.evHandler("worker: processLine: peer[%s]: blk[%d]: already seen", pr, block.Number)
			return
		}

		w.evHandler("worker: processLine: peer[%s]: blk[%d]: WARNING: rejected: %s", pr, block.Number, err)
		return
	}

	if err := w.state.NetSendBlockToPeers(block, pr.Host); err != nil {
		w.evHandler("worker: processLine: peer[%s]: WARNING: %s", pr, err)
	}
}
