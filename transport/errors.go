package transport

// Kind classifies a transport failure.
type Kind int

const (
	// KindNoEndpoint means every candidate pipe slot failed to open.
	KindNoEndpoint Kind = iota + 1
	// KindNotConnected means an operation ran with no live handle.
	KindNotConnected
	// KindWriteFailed means the OS write failed with a non-retryable
	// error.
	KindWriteFailed
	// KindWriteExhausted means the transient closing error persisted
	// through the whole retry budget.
	KindWriteExhausted
	// KindReadFailed means the OS read failed; reads are never retried.
	KindReadFailed
	// KindFlushFailed means the close-time flush failed.
	KindFlushFailed
)

func (k Kind) String() string {
	switch k {
	case KindNoEndpoint:
		return "no ipc endpoint available"
	case KindNotConnected:
		return "pipe handle not initialized"
	case KindWriteFailed:
		return "write failed"
	case KindWriteExhausted:
		return "write retries exhausted"
	case KindReadFailed:
		return "read failed"
	case KindFlushFailed:
		return "flush failed"
	default:
		return "transport error"
	}
}

// Error is a transport failure: the kind plus the underlying OS error
// when one exists. errors.Is matches on kind against the sentinel
// values below, and the wrapped OS error stays reachable via Unwrap.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNoEndpoint     = &Error{Kind: KindNoEndpoint}
	ErrNotConnected   = &Error{Kind: KindNotConnected}
	ErrWriteFailed    = &Error{Kind: KindWriteFailed}
	ErrWriteExhausted = &Error{Kind: KindWriteExhausted}
	ErrReadFailed     = &Error{Kind: KindReadFailed}
	ErrFlushFailed    = &Error{Kind: KindFlushFailed}
)
