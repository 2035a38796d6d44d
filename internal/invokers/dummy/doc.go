// Package dummy implements test invokers that need no real upstream.
//
//   - dummy: returns an empty Dummy document and can suspend a configurable
//     number of times, fail on demand, or fail at random
//   - dummy-reply: echoes its input, optionally after one suspension
//   - dummy-https: POSTs to a url and returns an empty Dummy document
//
// They exercise the continuation protocol and the transport stack end to end.
package dummy
