package lfu

import "testing"

// Scenario C: capacity 2. put(1); put(2); get(1) twice; put(3) must evict
// key 2, the lower-frequency resident.
func TestLFU_EvictsLeastFrequentlyUsed(t *testing.T) {
	t.Parallel()

	p := New[int]()
	p.OnSet(1)
	p.OnSet(2)
	p.OnGet(1)
	p.OnGet(1)

	victim, ok := p.Evict()
	if !ok || victim != 2 {
		t.Fatalf("want evict 2, got %v ok=%v", victim, ok)
	}
}

// Ties within the same frequency break FIFO: the earlier-admitted key of
// equal frequency is evicted first.
func TestLFU_TiesBreakFIFO(t *testing.T) {
	t.Parallel()

	p := New[string]()
	p.OnSet("a")
	p.OnSet("b")
	// Both at frequency 1; a was admitted first.

	victim, ok := p.Evict()
	if !ok || victim != "a" {
		t.Fatalf("want evict a, got %v ok=%v", victim, ok)
	}
}

func TestLFU_MinFreqAdvancesWhenBucketEmptied(t *testing.T) {
	t.Parallel()

	p := New[string]()
	p.OnSet("a")
	p.OnSet("b")
	p.OnGet("a") // a -> freq 2, bucket 1 now holds only b

	victim, ok := p.Evict()
	if !ok || victim != "b" {
		t.Fatalf("want evict b, got %v ok=%v", victim, ok)
	}
	// Only a remains, at freq 2.
	victim, ok = p.Evict()
	if !ok || victim != "a" {
		t.Fatalf("want evict a, got %v ok=%v", victim, ok)
	}
}

func TestLFU_RemoveUnknownKeyIsNoop(t *testing.T) {
	t.Parallel()

	p := New[string]()
	p.Remove("missing")
}

func TestLFU_EvictOnEmptyReturnsFalse(t *testing.T) {
	t.Parallel()

	p := New[string]()
	if _, ok := p.Evict(); ok {
		t.Fatal("want ok=false evicting from an empty policy")
	}
}

func TestLFU_RemoveResetsMinFreqWhenEmptied(t *testing.T) {
	t.Parallel()

	p := New[string]()
	p.OnSet("a")
	p.OnGet("a")
	p.Remove("a")

	p.OnSet("b")
	victim, ok := p.Evict()
	if !ok || victim != "b" {
		t.Fatalf("want evict b, got %v ok=%v", victim, ok)
	}
}
