// Package converter is the interactive price converter session.
//
// A Service owns the user's inputs, the last edited field, the contract clause
// and the selected payload format. Every change runs the same pipeline:
// validate, reconcile, write the triple back, build the purpose and payload,
// then consult the artifact cache. A miss starts one asynchronous render; while
// it runs no other render starts, and when it finishes the loop stores the
// artifact and, if the inputs moved on, renders the key now on display.
//
// All state lives in the goroutine running Service.Run. Public methods send it
// closures, so there are no locks around the session itself.
//
// # Routes
//
//   - GET    /converter               current view
//   - PUT    /converter/fields/:field edit rate, amount_a or amount_b
//   - PUT    /converter/contract      set the contract clause
//   - POST   /converter/format/next   cycle the payload format
//   - GET    /converter/qr            PNG for the current inputs
//   - GET    /converter/cache         cache statistics
//   - DELETE /converter/cache         clear the cache
package converter
