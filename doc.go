// Package shopauth implements the client-side session lifecycle for a retail
// back-office application: credential exchange, permission-gate resolution,
// profile and store hydration, shop-channel configuration lookup, and user
// preference synchronization (selected brand, pinned jobs).
//
// The package is the public surface. It exposes [Engine], [Builder], [Config],
// the collaborator interfaces ([Backend], [PreferenceProvider],
// [SiblingModule], [ToastSink], [Translator]), and value records. Session
// bookkeeping lives in the session subpackage, durable authorization state in
// authstate, and permission rule handling in permission.
//
// # Architecture boundaries
//
//   - Remote transports are collaborators. The engine never opens sockets of
//     its own; it sequences the dependent calls and owns the resulting state.
//   - Login is all-or-nothing: no session state is committed unless the
//     credential exchange and the permission gate both pass.
//   - Every other flow degrades: failed secondary fetches reset their own
//     sub-state, log, and leave the session usable.
//
// # Concurrency
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build]. Fire-and-forget hydration tasks are
// tracked and drained by [Engine.Close].
package shopauth
