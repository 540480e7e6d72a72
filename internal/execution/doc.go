// Package execution is a small flow execution host. It keeps the stack of
// active sessions, the per-request binding slot, and fires listener callbacks
// in the order the persistence listener depends on:
//
//	Start: SessionStarting -> push
//	End:   SessionEnding -> pop -> SessionEnded
//
// It is not a navigation framework. There are no views, transitions or
// expressions; callers decide when a session starts and with which outcome
// it ends.
package execution
