// Package peer maintains the peer related information such as the set
// of known peers and the streams used to talk with them.
package peer

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"sync"
	"time"
)

// Peer represents a connected Node in the network.
type Peer struct {
	Host string

	conn net.Conn
	mu   sync.Mutex
	w    *bufio.Writer
}

// New contructs a new peer value that owns the specified connection.
func New(host string, conn net.Conn) *Peer {
	return &Peer{
		Host: host,
		conn: conn,
		w:    bufio.NewWriter(conn),
	}
}

// Match validates if the specified host matches this node.
func (p *Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p *Peer) String() string {
	return p.Host
}

// Send writes the line to the peer's stream and flushes it. Writes from
// different goroutines are serialized so lines never interleave.
func (p *Peer) Send(line []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, err := p.w.Write(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return nil
}

// Reader returns the read side of the peer's stream.
func (p *Peer) Reader() io.Reader {
	return p.conn
}

// Close closes the peer's stream which terminates its reader.
func (p *Peer) Close() error {
	return p.conn.Close()
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	LatestBlockHash   string   `json:"latest_block_hash"`
	LatestBlockNumber uint64   `json:"latest_block_number"`
	KnownPeers        []string `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[string]*Peer
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[string]*Peer),
	}
}

// Add adds a new node to the set. False is returned if a peer with the same
// host is already registered.
func (ps *PeerSet) Add(peer *Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer.Host]
	if !exists {
		ps.set[peer.Host] = peer
		return true
	}

	return false
}

// Remove removes the peer from the set. Nothing happens if the host has
// since been registered by a different peer value.
func (ps *PeerSet) Remove(peer *Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.set[peer.Host] == peer {
		delete(ps.set, peer.Host)
	}
}

// Exists reports whether a peer with the specified host is registered.
func (ps *PeerSet) Exists(host string) bool {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	_, exists := ps.set[host]
	return exists
}

// Len returns the number of registered peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers excluding the specified host.
func (ps *PeerSet) Copy(host string) []*Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []*Peer
	for _, peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}

// Hosts returns the hosts of every known peer.
func (ps *PeerSet) Hosts() []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	hosts := make([]string, 0, len(ps.set))
	for host := range ps.set {
		hosts = append(hosts, host)
	}

	return hosts
}

// =============================================================================

// DialConfig represents the retry policy for outbound connections.
type DialConfig struct {
	Attempts int
	Delay    time.Duration
	Timeout  time.Duration
}

// Dial attempts an outbound connection to the host up to the configured
// number of attempts, sleeping a fixed delay between attempts. The error
// from the last attempt is returned when every attempt fails.
func Dial(host string, cfg DialConfig, evHandler func(v string, args ...any)) (net.Conn, error) {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 1
	}

	dialer := net.Dialer{Timeout: cfg.Timeout}

	var err error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		evHandler("peer: Dial: attempt[%d] to connect to %s", attempt, host)

		var conn net.Conn
		conn, err = dialer.Dial("tcp", host)
		if err == nil {
			return conn, nil
		}

		evHandler("peer: Dial: failed to connect to %s: attempt[%d]: %s", host, attempt, err)

		if attempt < cfg.Attempts {
			time.Sleep(cfg.Delay)
		}
	}

	return nil, fmt.Errorf("connecting to %s after %d attempts: %w", host, cfg.Attempts, err)
}
