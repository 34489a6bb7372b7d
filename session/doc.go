// Package session holds the in-memory state of one back-office client
// session: bearer token, hydrated profile, effective permission set, store
// bindings, shop-channel configurations, pinned jobs, and the active time
// zone.
//
// # Atomic composite commits
//
// State mutations that belong together (profile + current store, config list
// + current config, token + permissions) go through single commit methods
// that take the write lock once, so a reader can never observe one half of a
// composite without the other.
//
// # Architecture boundaries
//
// This package owns the [State] container and the session value records
// ([Profile], [Store], [ShopConfig], [PinnedJobSet], [Job]). It does NOT
// perform remote calls, evaluate the login gate, or persist anything; those
// responsibilities belong to the Engine and the authstate package.
//
// # What this package must NOT do
//
//   - Import shopauth, authstate, or permission (no upward imports).
//   - Reach out to any collaborator; every value here arrives via a commit.
package session
