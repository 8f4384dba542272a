// Package sinecache is the repository root: it has no importable code of
// its own. The cache engine lives in package engine, composed from the
// independently usable policy (policy/fifo, policy/lru, policy/lfu), store
// and journal packages; package asyncengine adds concurrency safety.
//
// Design
//
//   - Store: a bounded hash-indexed map, oblivious to eviction. Inserting
//     past capacity is the Engine's job, not the Store's.
//
//   - Policy: pluggable key-identity bookkeeping behind a four-method
//     interface (OnGet, OnSet, Evict, Remove). FIFO, LRU and LFU are built
//     in; a custom Policy needs only satisfy the interface. Each built-in
//     keeps its own intrusive list or bucket structure addressed by integer
//     handle into a slice arena, independent of Store, so there is no
//     shared node type for Store and Policy to fight over ownership of.
//
//   - Journal: an append-only file of length-prefixed PUT/GET/REMOVE
//     records, written either synchronously (fsync per operation) or on a
//     periodic flush timer. Opening an Engine against an existing journal
//     replays it first, re-applying PUT/REMOVE through the Engine's normal
//     paths so eviction reactivates exactly as it did originally.
//
//   - Engine: binds one Store, one Policy and an optional Journal into the
//     public Get/Put/Remove/Len/Contains contract. Not safe for concurrent
//     use on its own.
//
//   - AsyncEngine: wraps an Engine with a single-slot semaphore so it is
//     safe to call from multiple goroutines, with context cancellation
//     honored while waiting for the lock.
//
// Basic usage
//
//	e, err := engine.New(engine.Config[string, string]{Capacity: 1024})
//	if err != nil { ... }
//	defer e.Close()
//	_ = e.Put("a", "1")
//	v, ok, _ := e.Get("a")
//
// With a journal
//
//	e, err := engine.New(engine.Config[string, string]{
//	    Capacity: 1024,
//	    Journal: &engine.JournalConfig[string, string]{
//	        Folder: "/var/lib/myapp", CacheName: "sessions",
//	    },
//	})
//	// A subsequent engine.New with the same Folder/CacheName replays
//	// whatever was journaled before the process last exited.
package sinecache
