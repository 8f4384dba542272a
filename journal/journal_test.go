package journal

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRecord_EncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []Record{
		{Kind: KindPut, Key: []byte("a"), Value: []byte("1")},
		{Kind: KindGet, Key: []byte("a")},
		{Kind: KindRemove, Key: []byte("a")},
		{Kind: KindPut, Key: []byte(""), Value: []byte("")},
	}
	for _, want := range cases {
		data := encodeRecord(want.Kind, want.Key, want.Value)
		got, err := readRecord(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("readRecord: %v", err)
		}
		if got.Kind != want.Kind || !bytes.Equal(got.Key, want.Key) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		if want.Kind == KindPut && !bytes.Equal(got.Value, want.Value) {
			t.Fatalf("got value %q, want %q", got.Value, want.Value)
		}
	}
}

func TestRecord_UnrecognizedKindIsCorrupt(t *testing.T) {
	t.Parallel()

	data := []byte{99, 0, 0, 0, 0} // kind byte 99, zero-length key
	if _, err := readRecord(bytes.NewReader(data)); err != ErrCorruptRecord {
		t.Fatalf("err = %v, want ErrCorruptRecord", err)
	}
}

func TestRecord_TruncatedTrailingRecordIsTolerated(t *testing.T) {
	t.Parallel()

	full := encodeRecord(KindPut, []byte("key"), []byte("value"))
	truncated := full[:len(full)-2]

	if _, err := readRecord(bytes.NewReader(truncated)); err != errTruncated {
		t.Fatalf("err = %v, want errTruncated", err)
	}
}

func TestReader_OpenOnMissingFileReturnsNilNil(t *testing.T) {
	t.Parallel()

	r, err := OpenReader(filepath.Join(t.TempDir(), "nope"))
	if err != nil || r != nil {
		t.Fatalf("OpenReader = %v, %v; want nil, nil", r, err)
	}
}

func TestReader_StopsCleanlyOnTruncatedTrailingRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "j")
	full := encodeRecord(KindPut, []byte("a"), []byte("1"))
	full = append(full, encodeRecord(KindPut, []byte("b"), []byte("2"))...)
	// Cut the second record short.
	if err := os.WriteFile(path, full[:len(full)-2], 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := OpenReader(path)
	if err != nil || r == nil {
		t.Fatalf("OpenReader = %v, %v", r, err)
	}
	defer r.Close()

	rec, ok, err := r.Next()
	if err != nil || !ok || string(rec.Key) != "a" {
		t.Fatalf("first record = %+v, %v, %v", rec, ok, err)
	}

	_, ok, err = r.Next()
	if err != nil || ok {
		t.Fatalf("second record should be discarded silently, got ok=%v err=%v", ok, err)
	}
}

func TestWriter_SynchronousAppendIsImmediatelyReadable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "j")
	w, err := OpenWriter(path, 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append(KindPut, []byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenReader(path)
	if err != nil || r == nil {
		t.Fatalf("OpenReader = %v, %v", r, err)
	}
	defer r.Close()

	rec, ok, err := r.Next()
	if err != nil || !ok || string(rec.Key) != "a" {
		t.Fatalf("record = %+v, %v, %v", rec, ok, err)
	}
}

// Scenario F: a periodic-mode Writer buffers Append calls and flushes them
// on its own schedule; Close must perform a final flush so nothing
// buffered is lost on clean shutdown.
func TestWriter_PeriodicModeFlushesOnClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "j")
	w, err := OpenWriter(path, time.Hour, nil) // long enough that only Close's final flush matters
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append(KindPut, []byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := OpenReader(path)
	if err != nil || r == nil {
		t.Fatalf("OpenReader = %v, %v", r, err)
	}
	defer r.Close()

	rec, ok, err := r.Next()
	if err != nil || !ok || string(rec.Key) != "a" {
		t.Fatalf("record = %+v, %v, %v", rec, ok, err)
	}
}

func TestWriter_PeriodicModeFlushesOnTicker(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "j")
	w, err := OpenWriter(path, 10*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Append(KindPut, []byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		info, err := os.Stat(path)
		if err == nil && info.Size() > 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("periodic flush never wrote the buffered record")
}

func TestJSONCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	c := JSONCodec[string, int]{}
	kb, err := c.EncodeKey("a")
	if err != nil {
		t.Fatal(err)
	}
	k, err := c.DecodeKey(kb)
	if err != nil || k != "a" {
		t.Fatalf("DecodeKey = %v, %v", k, err)
	}

	vb, err := c.EncodeValue(42)
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.DecodeValue(vb)
	if err != nil || v != 42 {
		t.Fatalf("DecodeValue = %v, %v", v, err)
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	if got, want := Path("/var/lib/app", "sessions"), filepath.Join("/var/lib/app", "sessions"); got != want {
		t.Fatalf("Path = %q, want %q", got, want)
	}
}
