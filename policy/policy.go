// Package policy defines the eviction-policy capability set shared by every
// SineCache engine. A Policy observes every cache event and, on demand,
// names a resident key to evict.
package policy

// Policy is the contract every eviction strategy must satisfy: the three
// built-ins in policy/fifo, policy/lru and policy/lfu, or a caller-supplied
// implementation wired through engine.Config.Policy.
//
// All methods are called by an Engine with exclusive access already
// established (directly, or indirectly via AsyncEngine's semaphore);
// implementations need not be safe for concurrent use on their own.
type Policy[K comparable] interface {
	// OnGet notifies the policy that k was just read. k is guaranteed
	// resident at the time of the call.
	OnGet(k K)

	// OnSet notifies the policy that k was just inserted or overwritten.
	// Must be idempotent on repeated calls for the same resident key:
	// a repeat on_set must not corrupt ordering beyond what the policy
	// documents for overwrites.
	OnSet(k K)

	// Evict names a victim using only prior observations. Called only by
	// an Engine when its Store is full and a new key is about to be
	// inserted. The second return value is false when the policy has no
	// candidate to offer; the Engine must then refuse to make room.
	Evict() (victim K, ok bool)

	// Remove notifies the policy that k is no longer resident. The
	// policy must forget k and never propose it again. Removing an
	// unknown key is a silent no-op.
	Remove(k K)
}
