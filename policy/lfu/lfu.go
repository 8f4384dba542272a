// Package lfu implements the LFU (least-frequently-used) eviction policy:
// the victim is a resident key of minimum access frequency, ties broken by
// FIFO order within that frequency class.
//
// The two-level structure (map[K]->frequency, map[frequency]->queue of keys
// at that frequency, plus a running minFreq) follows
// _examples/original_source/src/eviction_policies/lfu.rs. That original
// composes its per-frequency queues from its own LRU type; here each
// frequency bucket is its own push-front/pop-back intrusive queue built on
// the same handle-arena technique as policy/fifo and policy/lru, since Go
// has no safe way to reuse a generic internal node type across two packages
// without an extra allocation per node.
package lfu

import "github.com/sinecache/sinecache/policy"

const nilHandle int32 = -1

type node[K comparable] struct {
	key        K
	freq       int
	prev, next int32
}

// bucket is the push-front/pop-back queue of keys currently at one
// frequency. head is the most-recently-added (or most-recently-promoted-in)
// member; tail is the least-recently-added, and is the one Evict chooses.
type bucket struct {
	head, tail int32
}

func (b bucket) empty() bool { return b.head == nilHandle }

type lfu[K comparable] struct {
	nodes   []node[K]
	free    []int32
	index   map[K]int32
	buckets map[int]*bucket
	minFreq int
}

// New returns an LFU eviction policy ready for use with an Engine.
func New[K comparable]() policy.Policy[K] {
	return &lfu[K]{
		index:   make(map[K]int32),
		buckets: make(map[int]*bucket),
	}
}

// OnGet records an access, bumping the key's frequency by one. A miss on a
// non-resident key is a silent no-op (the contract guarantees residency,
// but policies tolerate divergence during replay edge cases).
func (l *lfu[K]) OnGet(k K) {
	if h, ok := l.index[k]; ok {
		l.bump(h)
	}
}

// OnSet admits a fresh key at frequency 1, or bumps a repeat key's
// frequency by one (an overwrite counts as an access).
func (l *lfu[K]) OnSet(k K) {
	if h, ok := l.index[k]; ok {
		l.bump(h)
		return
	}
	h := l.alloc(k, 1)
	l.pushFront(1, h)
	l.minFreq = 1
}

// Evict removes and returns the tail of the minimum-frequency bucket: the
// least-recently-added member of the least-frequent class.
func (l *lfu[K]) Evict() (K, bool) {
	if l.minFreq == 0 {
		var zero K
		return zero, false
	}
	b := l.buckets[l.minFreq]
	if b == nil || b.empty() {
		var zero K
		return zero, false
	}
	h := b.tail
	k := l.nodes[h].key
	l.removeFromBucket(l.minFreq, h)
	delete(l.index, k)
	l.release(h)
	l.advanceMinFreqAfterRemoval()
	return k, true
}

// Remove deletes the node for k, wherever its current frequency bucket is.
// Removing an unknown key is a silent no-op.
func (l *lfu[K]) Remove(k K) {
	h, ok := l.index[k]
	if !ok {
		return
	}
	freq := l.nodes[h].freq
	l.removeFromBucket(freq, h)
	delete(l.index, k)
	l.release(h)
	l.advanceMinFreqAfterRemoval()
}

// bump moves the node from its current frequency bucket to the next one,
// adjusting minFreq if the vacated bucket was the minimum and emptied.
func (l *lfu[K]) bump(h int32) {
	oldFreq := l.nodes[h].freq
	l.removeFromBucket(oldFreq, h)
	if b := l.buckets[oldFreq]; (b == nil || b.empty()) && oldFreq == l.minFreq {
		l.minFreq = oldFreq + 1
	}
	newFreq := oldFreq + 1
	l.nodes[h].freq = newFreq
	l.pushFront(newFreq, h)
}

// advanceMinFreqAfterRemoval re-establishes the minFreq invariant after an
// eviction or explicit removal: 0 if no keys remain, otherwise the smallest
// frequency with a non-empty bucket at or above the previous minFreq.
func (l *lfu[K]) advanceMinFreqAfterRemoval() {
	if len(l.index) == 0 {
		l.minFreq = 0
		return
	}
	for {
		b := l.buckets[l.minFreq]
		if b != nil && !b.empty() {
			return
		}
		l.minFreq++
	}
}

func (l *lfu[K]) alloc(k K, freq int) int32 {
	var h int32
	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[h] = node[K]{key: k, freq: freq, prev: nilHandle, next: nilHandle}
	} else {
		h = int32(len(l.nodes))
		l.nodes = append(l.nodes, node[K]{key: k, freq: freq, prev: nilHandle, next: nilHandle})
	}
	l.index[k] = h
	return h
}

func (l *lfu[K]) release(h int32) {
	l.free = append(l.free, h)
}

func (l *lfu[K]) pushFront(freq int, h int32) {
	b := l.buckets[freq]
	if b == nil {
		b = &bucket{head: nilHandle, tail: nilHandle}
		l.buckets[freq] = b
	}
	l.nodes[h].prev = nilHandle
	l.nodes[h].next = b.head
	if b.head != nilHandle {
		l.nodes[b.head].prev = h
	}
	b.head = h
	if b.tail == nilHandle {
		b.tail = h
	}
}

func (l *lfu[K]) removeFromBucket(freq int, h int32) {
	b := l.buckets[freq]
	if b == nil {
		return
	}
	n := l.nodes[h]
	if n.prev != nilHandle {
		l.nodes[n.prev].next = n.next
	} else {
		b.head = n.next
	}
	if n.next != nilHandle {
		l.nodes[n.next].prev = n.prev
	} else {
		b.tail = n.prev
	}
	if b.empty() {
		delete(l.buckets, freq)
	}
}
