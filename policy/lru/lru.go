// Package lru implements the LRU (least-recently-used) eviction policy:
// the victim is always the resident key that has gone the longest without
// being read or (re)inserted.
package lru

import "github.com/sinecache/sinecache/policy"

// node is one element of the intrusive MRU->LRU doubly linked list, stored
// in a slice arena and addressed by integer handle (see policy/fifo for the
// rationale: this sidesteps the original Rust implementation's need for
// unsafe raw pointers, which Go must not reach for).
type node[K comparable] struct {
	key        K
	prev, next int32
}

const nilHandle int32 = -1

// lru is the per-cache LRU policy state: head is MRU, tail is LRU.
type lru[K comparable] struct {
	nodes []node[K]
	free  []int32
	index map[K]int32
	head  int32
	tail  int32
}

// New returns an LRU eviction policy ready for use with an Engine.
func New[K comparable]() policy.Policy[K] {
	return &lru[K]{
		index: make(map[K]int32),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

// OnGet promotes k to MRU.
func (l *lru[K]) OnGet(k K) {
	if h, ok := l.index[k]; ok {
		l.moveToFront(h)
	}
}

// OnSet inserts a fresh key at MRU, or promotes a repeat key to MRU.
func (l *lru[K]) OnSet(k K) {
	if h, ok := l.index[k]; ok {
		l.moveToFront(h)
		return
	}
	h := l.alloc(k)
	l.pushFront(h)
}

// Evict removes and returns the current LRU (tail) entry.
func (l *lru[K]) Evict() (K, bool) {
	if l.tail == nilHandle {
		var zero K
		return zero, false
	}
	h := l.tail
	k := l.nodes[h].key
	l.unlink(h)
	delete(l.index, k)
	l.release(h)
	return k, true
}

// Remove unlinks the node for k. Removing an unknown key is a silent no-op.
func (l *lru[K]) Remove(k K) {
	h, ok := l.index[k]
	if !ok {
		return
	}
	l.unlink(h)
	delete(l.index, k)
	l.release(h)
}

func (l *lru[K]) alloc(k K) int32 {
	var h int32
	if n := len(l.free); n > 0 {
		h = l.free[n-1]
		l.free = l.free[:n-1]
		l.nodes[h] = node[K]{key: k, prev: nilHandle, next: nilHandle}
	} else {
		h = int32(len(l.nodes))
		l.nodes = append(l.nodes, node[K]{key: k, prev: nilHandle, next: nilHandle})
	}
	l.index[k] = h
	return h
}

func (l *lru[K]) release(h int32) {
	l.free = append(l.free, h)
}

func (l *lru[K]) pushFront(h int32) {
	l.nodes[h].prev = nilHandle
	l.nodes[h].next = l.head
	if l.head != nilHandle {
		l.nodes[l.head].prev = h
	}
	l.head = h
	if l.tail == nilHandle {
		l.tail = h
	}
}

func (l *lru[K]) unlink(h int32) {
	n := l.nodes[h]
	if n.prev != nilHandle {
		l.nodes[n.prev].next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nilHandle {
		l.nodes[n.next].prev = n.prev
	} else {
		l.tail = n.prev
	}
}

func (l *lru[K]) moveToFront(h int32) {
	if h == l.head {
		return
	}
	l.unlink(h)
	l.pushFront(h)
}
