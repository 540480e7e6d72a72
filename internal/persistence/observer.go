package persistence

// Observer receives lifecycle notifications from a Listener. Implementations
// must be safe for concurrent use; one Listener serves many requests.
type Observer interface {
	ContextCreated()
	ContextReused()
	ContextCommitted()
	ContextClosed()
	ContextFailed(op string)
}

// Operation names passed to Observer.ContextFailed.
const (
	OpCreate = "create"
	OpCommit = "commit"
	OpClose  = "close"
)

type noopObserver struct{}

func (noopObserver) ContextCreated()      {}
func (noopObserver) ContextReused()       {}
func (noopObserver) ContextCommitted()    {}
func (noopObserver) ContextClosed()       {}
func (noopObserver) ContextFailed(string) {}
