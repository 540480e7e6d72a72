// Package persistence propagates a persistence context through nested flow
// sessions.
//
// A session whose flow definition carries persistenceContext=true gets a
// Context. Subflows that also opt in share their parent's Context by
// reference; subflows that do not opt in run with nothing bound. Only the
// session that created a Context commits and closes it, when it ends in an
// end state with commit=true (close happens regardless). When a subflow
// ends, the parent's Context is bound again.
//
// The Context is stored in the session scope under
// flow.PersistenceContextAttribute and bound in the execution.RequestContext
// under the Factory value, so a Factory must be comparable (typically a
// pointer).
package persistence
