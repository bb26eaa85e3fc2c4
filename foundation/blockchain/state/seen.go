package state

// seenCache remembers a bounded number of block hashes. Once full, the
// oldest hash is forgotten first.
type seenCache struct {
	hashes map[string]struct{}
	ring   []string
	next   int
}

func newSeenCache(capacity int) *seenCache {
	return &seenCache{
		hashes: make(map[string]struct{}, capacity),
		ring:   make([]string, capacity),
	}
}

func (sc *seenCache) exists(hash string) bool {
	_, exists := sc.hashes[hash]
	return exists
}

func (sc *seenCache) add(hash string) {
	if sc.exists(hash) {
		return
	}

	if old := sc.ring[sc.next]; old != "" {
		delete(sc.hashes, old)
	}

	sc.ring[sc.next] = hash
	sc.hashes[hash] = struct{}{}
	sc.next = (sc.next + 1) % len(sc.ring)
}

func (sc *seenCache) reset() {
	clear(sc.hashes)
	clear(sc.ring)
	sc.next = 0
}
