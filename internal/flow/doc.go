// Package flow defines the passive data model of a flow execution: flow
// definitions with their end states, and the sessions that run them.
//
// Sessions form a strict tree. A session only knows its parent, and the only
// way to build one is NewSession, so cycles cannot be expressed. Each session
// owns a Scope, a small attribute store that listeners use to keep
// per-session values such as the persistence context.
package flow
