// Package permission builds the required-permission allow-list that gates
// application access and maps server-reported permission records into the
// app-internal permission identifiers used by the rest of the client.
//
// # Architecture boundaries
//
// This package owns the static [Rules] (role → permission ids), the
// [Registry] (server permission id → app permission id), and the [Record]
// wire model. It does NOT fetch anything from the backend and it does NOT
// decide whether a login passes the gate; the Engine owns the gate policy.
//
// # What this package must NOT do
//
//   - Import shopauth or session (no upward imports).
//   - Mutate the registry after Freeze; registration is initialization-only.
package permission
