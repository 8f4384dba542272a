// Package journal implements SineCache's append-only file (AOF): a
// length-prefixed binary log of mutation records with two flush
// disciplines (synchronous per-operation, or periodic background flush),
// plus a Reader used to replay a log back into an Engine at startup.
//
// The periodic-flush goroutine is grounded on the pending-queue-plus-ticker
// pattern in _examples/wegjgwioj-myRedis/aof/aof.go and the Rust original's
// AOFSubscriber/periodic_flush (_examples/original_source/src/aof.rs).
package journal

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Writer appends records to a journal file under one of two flush
// disciplines, selected by flushTime: 0 means synchronous (every Append
// blocks until fsync'd), >0 means periodic (Append buffers in memory and a
// background goroutine flushes every flushTime).
type Writer struct {
	file         *os.File
	flushTime    time.Duration
	onFlushError func(error)

	mu      sync.Mutex
	pending []byte

	stopCh chan struct{}
	doneCh chan struct{}
}

// OpenWriter opens (creating if necessary) the journal file at path for
// appending. If flushTime > 0, a background goroutine is started that
// flushes buffered records to disk every flushTime; onFlushError (if
// non-nil) is called with any I/O error encountered by that goroutine,
// matching spec §7's requirement that periodic-mode errors surface via
// "an error channel/log" rather than aborting the process.
func OpenWriter(path string, flushTime time.Duration, onFlushError func(error)) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	w := &Writer{file: f, flushTime: flushTime, onFlushError: onFlushError}
	if flushTime > 0 {
		w.stopCh = make(chan struct{})
		w.doneCh = make(chan struct{})
		go w.runPeriodicFlush()
	}
	return w, nil
}

// Append encodes one record and commits it per the configured discipline.
// In synchronous mode, a returned error means the record did not survive a
// crash and the caller should roll back its in-memory mutation (spec §7).
// In periodic mode, Append never fails due to disk state: failures surface
// later, asynchronously, via onFlushError.
func (w *Writer) Append(kind RecordKind, key, value []byte) error {
	data := encodeRecord(kind, key, value)

	if w.flushTime <= 0 {
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, err := w.file.Write(data); err != nil {
			return err
		}
		return w.file.Sync()
	}

	w.mu.Lock()
	w.pending = append(w.pending, data...)
	w.mu.Unlock()
	return nil
}

func (w *Writer) runPeriodicFlush() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.flushTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.flushPending()
		case <-w.stopCh:
			w.flushPending()
			return
		}
	}
}

// flushPending drains the pending buffer and writes it out. If the write
// fails, the drained bytes are put back at the front of the buffer so the
// next tick retries them. If the write succeeds but the fsync fails, the
// error is reported and the bytes are not retained (they were already
// written).
func (w *Writer) flushPending() {
	w.mu.Lock()
	data := w.pending
	w.pending = nil
	w.mu.Unlock()

	if len(data) == 0 {
		return
	}

	if _, err := w.file.Write(data); err != nil {
		w.reportAndRetain(data, err)
		return
	}
	if err := w.file.Sync(); err != nil {
		w.reportAndRetain(nil, err)
	}
}

func (w *Writer) reportAndRetain(unflushed []byte, err error) {
	if w.onFlushError != nil {
		w.onFlushError(err)
	}
	if len(unflushed) == 0 {
		return
	}
	w.mu.Lock()
	w.pending = append(unflushed, w.pending...)
	w.mu.Unlock()
}

// Close stops the background flusher (if any), performs one final flush,
// and closes the underlying file, per spec §4.6/§5's teardown ordering.
func (w *Writer) Close() error {
	if w.flushTime > 0 {
		close(w.stopCh)
		<-w.doneCh
	}
	return w.file.Close()
}

// Reader replays a journal file's records back in append order. It is used
// once, at Engine construction, before a Writer is opened on the same path.
type Reader struct {
	file *os.File
}

// OpenReader opens path for replay. If the file does not exist, it returns
// (nil, nil): an Engine with no prior journal has nothing to replay.
func OpenReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &Reader{file: f}, nil
}

// Next returns the next record. ok is false with a nil error both when the
// file ends cleanly at a record boundary and when the trailing record was
// truncated (spec §4.5: "discarded silently"); callers should simply stop
// replay in either case. A non-nil error (ErrCorruptRecord, or a genuine
// I/O error) means replay must abort.
func (r *Reader) Next() (*Record, bool, error) {
	rec, err := readRecord(r.file)
	if err == nil {
		return rec, true, nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, errTruncated) {
		return nil, false, nil
	}
	return nil, false, err
}

// Close releases the read handle.
func (r *Reader) Close() error { return r.file.Close() }

// Path joins folder and cacheName the way spec §4.4/§6 requires:
// "{folder}/{cache_name}".
func Path(folder, cacheName string) string {
	return filepath.Join(folder, cacheName)
}
