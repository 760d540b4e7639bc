package asyncrt

// WakerKind identifies a wait queue category.
type WakerKind uint8

const (
	// WakerInvalid indicates an invalid waker key.
	WakerInvalid WakerKind = iota
	// WakerJoin indicates a join wait queue for a task.
	WakerJoin
	// WakerFuture indicates a wait queue for an externally-driven future.
	WakerFuture
)

// WakerKey identifies a wait queue entry.
type WakerKey struct {
	Kind WakerKind
	A    uint64
}

// IsValid reports whether the key is usable for waiting.
func (k WakerKey) IsValid() bool {
	return k.Kind != WakerInvalid
}

// JoinKey builds a join wait key for a target task.
func JoinKey(target TaskID) WakerKey {
	return WakerKey{Kind: WakerJoin, A: uint64(target)}
}

// FutureKey builds a wait key for an external future completion signal.
func FutureKey(id uint64) WakerKey {
	return WakerKey{Kind: WakerFuture, A: id}
}

// PollOutcomeKind reports how a poll iteration completed.
type PollOutcomeKind uint8

const (
	// PollDone indicates the task completed.
	PollDone PollOutcomeKind = iota
	// PollYielded indicates the task yielded and should be requeued.
	PollYielded
	// PollParked indicates the task is waiting on a waker key.
	PollParked
)

// PollOutcome describes the outcome of polling a task once.
type PollOutcome struct {
	Kind    PollOutcomeKind
	Value   any
	Err     error
	ParkKey WakerKey
}
