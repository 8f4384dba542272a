package engine

import "errors"

// Sentinel errors for the four kinds spec §7 names. Use errors.Is to test
// for a kind; wrapped causes (disk errors, decode errors) are reachable via
// errors.Unwrap/errors.As on the returned error.
var (
	// ErrConfigInvalid means Config failed validation at construction:
	// non-positive Capacity, an unwritable journal folder, or a negative
	// FlushTime. Construction fails; no Engine is returned.
	ErrConfigInvalid = errors.New("sinecache: invalid configuration")

	// ErrJournalIO means a journal disk write or read failed. In
	// synchronous flush mode this is returned from the failing Put/Get/
	// Remove call and the Store change is rolled back (see Engine.Put for
	// how far Policy state is restored).
	ErrJournalIO = errors.New("sinecache: journal I/O error")

	// ErrJournalCorrupt means replay hit a record kind it didn't
	// recognize, a record whose key or value the Codec could not decode,
	// or a read error. A length prefix pointing past end-of-file is
	// treated as a truncated trailing record: replay stops there silently
	// instead of failing.
	ErrJournalCorrupt = errors.New("sinecache: journal corrupt")

	// ErrPolicyRefusedEviction means Policy.Evict() returned ok=false
	// while the Store was full. Put fails without modifying Store,
	// Policy, or Journal.
	ErrPolicyRefusedEviction = errors.New("sinecache: policy refused to evict")
)
