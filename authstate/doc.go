// Package authstate persists the prepared app-permission set for the
// logged-in user in Redis. The state is process-external on purpose: it
// survives client reloads and its lifecycle is tied 1:1 to login/logout:
// written when the permission gate passes, dropped on logout.
//
// # Architecture boundaries
//
// This package owns the [Store] (Redis operations) only. It does NOT decide
// which permissions a user holds and it does NOT evaluate the login gate;
// those responsibilities belong to the Engine and the permission package.
//
// # What this package must NOT do
//
//   - Import shopauth, session, or permission (no upward imports).
//   - Cache reads in process memory; the in-memory copy lives in session.
package authstate
