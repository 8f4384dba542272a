// Package fifo implements the FIFO (first-in-first-out) eviction policy:
// the victim is always the resident key with the earliest fresh insertion,
// regardless of any subsequent reads or overwrites.
package fifo

import "github.com/sinecache/sinecache/policy"

// node is one element of the intrusive insertion-order queue. Nodes live in
// a slice arena addressed by integer handle rather than as heap pointers
// linked into a cycle, per the "intrusive lists without cyclic ownership"
// design note: the hash index stores handles, and siblings reference
// sibling handles.
type node[K comparable] struct {
	key        K
	prev, next int32 // handles into fifo.nodes; -1 means "none"
}

const nilHandle int32 = -1

// fifo is the per-cache FIFO policy state.
type fifo[K comparable] struct {
	nodes []node[K]
	free  []int32 // recycled handles
	index map[K]int32
	head  int32 // earliest-inserted (evict candidate)
	tail  int32 // most recently inserted
}

// New returns a FIFO eviction policy ready for use with an Engine.
func New[K comparable]() policy.Policy[K] {
	return &fifo[K]{
		index: make(map[K]int32),
		head:  nilHandle,
		tail:  nilHandle,
	}
}

// OnGet is a no-op: FIFO ordering only cares about insertion time.
func (f *fifo[K]) OnGet(K) {}

// OnSet enqueues a fresh key at the tail. A repeat key (already resident)
// is a no-op: FIFO ignores reinsertion order.
func (f *fifo[K]) OnSet(k K) {
	if _, ok := f.index[k]; ok {
		return
	}
	h := f.alloc(k)
	f.pushTail(h)
}

// Evict pops the head of the queue (the earliest surviving insertion).
func (f *fifo[K]) Evict() (K, bool) {
	if f.head == nilHandle {
		var zero K
		return zero, false
	}
	h := f.head
	k := f.nodes[h].key
	f.unlink(h)
	delete(f.index, k)
	f.release(h)
	return k, true
}

// Remove deletes the node for k in O(1), wherever it sits in the queue.
// Removing an unknown key is a silent no-op.
func (f *fifo[K]) Remove(k K) {
	h, ok := f.index[k]
	if !ok {
		return
	}
	f.unlink(h)
	delete(f.index, k)
	f.release(h)
}

func (f *fifo[K]) alloc(k K) int32 {
	var h int32
	if n := len(f.free); n > 0 {
		h = f.free[n-1]
		f.free = f.free[:n-1]
		f.nodes[h] = node[K]{key: k, prev: nilHandle, next: nilHandle}
	} else {
		h = int32(len(f.nodes))
		f.nodes = append(f.nodes, node[K]{key: k, prev: nilHandle, next: nilHandle})
	}
	f.index[k] = h
	return h
}

func (f *fifo[K]) release(h int32) {
	f.free = append(f.free, h)
}

func (f *fifo[K]) pushTail(h int32) {
	f.nodes[h].prev = f.tail
	f.nodes[h].next = nilHandle
	if f.tail != nilHandle {
		f.nodes[f.tail].next = h
	} else {
		f.head = h
	}
	f.tail = h
}

func (f *fifo[K]) unlink(h int32) {
	n := f.nodes[h]
	if n.prev != nilHandle {
		f.nodes[n.prev].next = n.next
	} else {
		f.head = n.next
	}
	if n.next != nilHandle {
		f.nodes[n.next].prev = n.prev
	} else {
		f.tail = n.prev
	}
}
