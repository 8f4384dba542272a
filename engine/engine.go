// Package engine binds a Store, a Policy and an optional Journal into the
// single public contract spec.md calls Engine: Get, Put, Remove, Len,
// Contains. It is not safe for concurrent use on its own — see package
// asyncengine for the mutually-excluded wrapper.
//
// Control flow is ported from _examples/original_source/src/cache.rs's
// put/get/remove (evict-before-insert ordering, overwrite-never-evicts)
// and generalized with the Journal/Replay machinery that the Rust crate
// only wires up on its separate async path
// (_examples/original_source/src/cache_events.rs).
package engine

import (
	"fmt"
	"time"

	"github.com/sinecache/sinecache/internal/util"
	"github.com/sinecache/sinecache/journal"
	"github.com/sinecache/sinecache/metrics"
	"github.com/sinecache/sinecache/policy"
	"github.com/sinecache/sinecache/policy/lru"
	"github.com/sinecache/sinecache/store"
)

// JournalConfig enables durability for an Engine. Folder/CacheName select
// the on-disk path "{folder}/{cache_name}" (spec §4.4/§6); FlushTime
// selects the flush discipline (0 => synchronous, >0 => periodic every
// FlushTime); PersistReadOps controls whether successful Get calls also
// append a GET record (meaningful mainly for custom policies that need
// read signals to reconstruct state on replay).
type JournalConfig[K comparable, V any] struct {
	Folder         string
	CacheName      string
	FlushTime      time.Duration
	PersistReadOps bool

	// Codec marshals keys/values to/from the bytes the journal stores.
	// Nil defaults to journal.JSONCodec[K, V]{}.
	Codec journal.Codec[K, V]

	// OnFlushError is called with any I/O error the background flusher
	// (periodic mode) encounters, and with any failed GET-record append
	// (which Get also returns as its error). Optional.
	OnFlushError func(error)
}

// Config configures an Engine. Capacity must be positive; Policy defaults
// to lru.New[K](); Metrics defaults to metrics.Noop{}.
type Config[K comparable, V any] struct {
	Capacity int
	Policy   policy.Policy[K]
	Journal  *JournalConfig[K, V]
	Metrics  metrics.Metrics

	// OnEvict is called synchronously whenever Put evicts a resident key
	// to make room for a new one.
	OnEvict func(k K, v V)
}

// Engine is the orchestrating component binding Store, Policy and an
// optional Journal into one cache instance.
type Engine[K comparable, V any] struct {
	store   *store.Store[K, V]
	pol     policy.Policy[K]
	metrics metrics.Metrics
	onEvict func(k K, v V)

	journal        *journal.Writer
	codec          journal.Codec[K, V]
	persistReadOps bool
	onFlushError   func(error)

	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// New constructs an Engine per cfg. If cfg.Journal names an existing
// journal file, its PUT and REMOVE records are replayed through the
// engine's own Put/Remove paths before New returns (spec §4.5), so
// eviction activates exactly as it did during the original run.
func New[K comparable, V any](cfg Config[K, V]) (*Engine[K, V], error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be > 0, got %d", ErrConfigInvalid, cfg.Capacity)
	}

	pol := cfg.Policy
	if pol == nil {
		pol = lru.New[K]()
	}
	m := cfg.Metrics
	if m == nil {
		m = metrics.Noop{}
	}

	e := &Engine[K, V]{
		store:   store.New[K, V](cfg.Capacity),
		pol:     pol,
		metrics: m,
		onEvict: cfg.OnEvict,
	}

	if cfg.Journal == nil {
		return e, nil
	}

	jc := cfg.Journal
	if jc.FlushTime < 0 {
		return nil, fmt.Errorf("%w: flush_time must be >= 0", ErrConfigInvalid)
	}
	if jc.Folder == "" || jc.CacheName == "" {
		return nil, fmt.Errorf("%w: journal folder and cache_name are required", ErrConfigInvalid)
	}

	codec := jc.Codec
	if codec == nil {
		codec = journal.JSONCodec[K, V]{}
	}
	e.codec = codec
	e.persistReadOps = jc.PersistReadOps
	e.onFlushError = jc.OnFlushError

	path := journal.Path(jc.Folder, jc.CacheName)
	if err := e.replay(path); err != nil {
		return nil, err
	}

	w, err := journal.OpenWriter(path, jc.FlushTime, jc.OnFlushError)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	e.journal = w
	return e, nil
}

// replay reconstructs Store+Policy state from an existing journal file by
// re-applying its records through the engine's normal Put/Remove paths
// (minus re-journaling), per spec §4.5 / Design Note "Replay re-uses
// normal paths".
func (e *Engine[K, V]) replay(path string) error {
	r, err := journal.OpenReader(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	if r == nil {
		return nil // no journal yet
	}
	defer r.Close()

	for {
		rec, ok, err := r.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrJournalCorrupt, err)
		}
		if !ok {
			return nil
		}

		switch rec.Kind {
		case journal.KindPut:
			k, err := e.codec.DecodeKey(rec.Key)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrJournalCorrupt, err)
			}
			v, err := e.codec.DecodeValue(rec.Value)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrJournalCorrupt, err)
			}
			if err := e.putInternal(k, v, false); err != nil {
				return err
			}
		case journal.KindRemove:
			k, err := e.codec.DecodeKey(rec.Key)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrJournalCorrupt, err)
			}
			e.removeInternal(k, false)
		case journal.KindGet:
			k, err := e.codec.DecodeKey(rec.Key)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrJournalCorrupt, err)
			}
			if e.store.Contains(k) {
				e.pol.OnGet(k)
			}
		}
	}
}

// Get returns the value for k and whether it was present. On a hit, Policy
// is notified via OnGet. err is non-nil only when PersistReadOps is set and
// the synchronous journal append for the GET record failed; the lookup
// result itself is always valid regardless.
func (e *Engine[K, V]) Get(k K) (V, bool, error) {
	v, ok := e.store.Get(k)
	if !ok {
		e.misses.Add(1)
		e.metrics.Miss()
		var zero V
		return zero, false, nil
	}
	e.pol.OnGet(k)
	e.hits.Add(1)
	e.metrics.Hit()

	if e.journal != nil && e.persistReadOps {
		if err := e.appendJournal(journal.KindGet, k, v, false); err != nil {
			return v, true, err
		}
	}
	return v, true, nil
}

// Stats is a snapshot of an Engine's lifetime hit/miss/eviction counters.
// Unlike the pluggable Metrics interface, these are always tracked and
// require no configuration.
type Stats struct {
	Hits   int64
	Misses int64
	Evicts uint64
}

// Stats returns the current hit/miss/eviction counters. Safe to call
// concurrently with Get/Put/Remove even on a bare Engine (the counters are
// atomic), though Engine's other state is not concurrency-safe on its own.
func (e *Engine[K, V]) Stats() Stats {
	return Stats{
		Hits:   e.hits.Load(),
		Misses: e.misses.Load(),
		Evicts: e.evicts.Load(),
	}
}

// Contains is a pure read: no Policy or journal effect.
func (e *Engine[K, V]) Contains(k K) bool { return e.store.Contains(k) }

// Len is a pure read: no Policy or journal effect.
func (e *Engine[K, V]) Len() int { return e.store.Len() }

// Put inserts or overwrites k->v per spec §4.3:
//   - k resident: overwrite, notify Policy.OnSet, journal a PUT. Never evicts.
//   - Store not full: insert, notify Policy.OnSet, journal a PUT.
//   - Store full, k fresh: ask Policy.Evict(); if it has no candidate,
//     fail with ErrPolicyRefusedEviction without touching Store, Policy or
//     Journal. Otherwise evict the victim, insert k, notify Policy.OnSet,
//     journal a single PUT (the victim's removal is never itself journaled:
//     it is implied by this PUT superseding it).
//
// A synchronous journal I/O failure restores the Store to its pre-call
// contents and returns ErrJournalIO. Policy state is restored exactly only
// for a fresh insert without eviction: an overwrite's Policy.OnSet is not
// undone, and an evicted victim is re-admitted through a fresh Policy.OnSet
// rather than at its previous position.
func (e *Engine[K, V]) Put(k K, v V) error {
	return e.putInternal(k, v, true)
}

func (e *Engine[K, V]) putInternal(k K, v V, logToJournal bool) error {
	if old, ok := e.store.Get(k); ok {
		e.store.Insert(k, v)
		e.pol.OnSet(k)
		if logToJournal && e.journal != nil {
			if err := e.appendJournal(journal.KindPut, k, v, true); err != nil {
				e.store.Insert(k, old)
				return err
			}
		}
		e.metrics.Size(e.store.Len())
		return nil
	}

	if e.store.Len() < e.store.Capacity() {
		e.store.Insert(k, v)
		e.pol.OnSet(k)
		if logToJournal && e.journal != nil {
			if err := e.appendJournal(journal.KindPut, k, v, true); err != nil {
				e.store.Delete(k)
				e.pol.Remove(k)
				return err
			}
		}
		e.metrics.Size(e.store.Len())
		return nil
	}

	victim, ok := e.pol.Evict()
	if !ok {
		return ErrPolicyRefusedEviction
	}
	// Policy.Evict already forgot the victim internally; Store deletion is
	// the only bookkeeping left to perform (spec §4.3's "Policy was
	// already notified by evict's contract").
	victimVal, existed := e.store.Delete(victim)

	e.store.Insert(k, v)
	e.pol.OnSet(k)
	if logToJournal && e.journal != nil {
		if err := e.appendJournal(journal.KindPut, k, v, true); err != nil {
			// Best-effort rollback: undo the fresh insert and restore the
			// victim's value. The victim's exact pre-eviction position in
			// the policy's internal ordering cannot be reconstructed (its
			// state was already consumed by Evict), so it is re-admitted
			// as a fresh Policy.OnSet instead.
			e.store.Delete(k)
			e.pol.Remove(k)
			if existed {
				e.store.Insert(victim, victimVal)
				e.pol.OnSet(victim)
			}
			return err
		}
	}
	if existed {
		e.evicts.Add(1)
		e.metrics.Evict()
		if e.onEvict != nil {
			e.onEvict(victim, victimVal)
		}
	}
	e.metrics.Size(e.store.Len())
	return nil
}

// Remove deletes k if present, notifies Policy.Remove, and journals a
// REMOVE record. A synchronous journal I/O failure rolls the deletion back
// (k is restored) and returns ErrJournalIO.
func (e *Engine[K, V]) Remove(k K) (V, bool, error) {
	return e.removeInternal(k, true)
}

func (e *Engine[K, V]) removeInternal(k K, logToJournal bool) (V, bool, error) {
	v, ok := e.store.Delete(k)
	if !ok {
		var zero V
		return zero, false, nil
	}
	e.pol.Remove(k)
	if logToJournal && e.journal != nil {
		if err := e.appendJournal(journal.KindRemove, k, v, false); err != nil {
			e.store.Insert(k, v)
			e.pol.OnSet(k)
			return v, true, err
		}
	}
	e.metrics.Size(e.store.Len())
	return v, true, nil
}

// appendJournal encodes and appends one record. withValue controls whether
// the value is encoded (PUT records carry a value; GET/REMOVE do not).
func (e *Engine[K, V]) appendJournal(kind journal.RecordKind, k K, v V, withValue bool) error {
	kb, err := e.codec.EncodeKey(k)
	if err != nil {
		return fmt.Errorf("%w: encode key: %v", ErrJournalIO, err)
	}
	var vb []byte
	if withValue {
		vb, err = e.codec.EncodeValue(v)
		if err != nil {
			return fmt.Errorf("%w: encode value: %v", ErrJournalIO, err)
		}
	}
	if err := e.journal.Append(kind, kb, vb); err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrJournalIO, err)
		if kind == journal.KindGet && e.onFlushError != nil {
			// Get has no other channel to surface a failed GET-record
			// append through to the caller in the common case where the
			// caller ignores Get's error return.
			e.onFlushError(wrapped)
		}
		return wrapped
	}
	return nil
}

// Close stops any background journal flusher, performs a final flush, and
// closes the journal file. An Engine with no journal configured returns
// nil immediately.
func (e *Engine[K, V]) Close() error {
	if e.journal == nil {
		return nil
	}
	return e.journal.Close()
}
