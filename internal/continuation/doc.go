// Package continuation implements the suspend-and-resume protocol.
//
// An invoker that wants to defer work returns a Suspended result holding a
// continuation Document and a delay. The caller waits and invokes again with
// the same input and the continuation. The continuation carries the number of
// further suspensions allowed:
//
//	<context><retry_count>2</retry_count></context>
//
// Each suspension strictly decrements the count. When it reaches zero the
// invoker must complete or fail. Nothing in this package sleeps.
package continuation
