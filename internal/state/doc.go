// Package state owns the client-side copy of the product catalog.
//
// # Overview
//
// Store is the single source of truth for the product list the UI shows and
// for the outcome of the last remote operation. It is the only component
// that talks to catalog.Remote; the editor and the UI call into it and read
// back Snapshot values.
//
//	UI / editor                       Store                         API
//	┌───────────────┐  Create/Update  ┌──────────────┐  POST/PUT    ┌─────┐
//	│ submit draft  │────────────────→│ validate     │─────────────→│     │
//	│               │                 │ remote write │              │     │
//	│               │                 │ Refresh()    │─── GET ─────→│     │
//	│ Snapshot()    │←────────────────│ swap list    │              └─────┘
//	└───────────────┘                 └──────────────┘
//
// # Sync State
//
// SyncState is exactly one of Idle, Loading or Error(message):
//
//   - Refresh sets Loading when it starts and Idle when the newest fetch
//     succeeds.
//   - A failed fetch keeps the previous products and sets
//     Error("Failed to fetch products").
//   - A failed write sets Error("Failed to save product") or
//     Error("Failed to delete product") and leaves the products untouched.
//   - A draft that fails validation sets Error(<validation message>) and no
//     request is sent.
//
// The error stays until a later fetch succeeds.
//
// # Ordering
//
// Writes are followed by an explicit Refresh, so the product list always
// comes from a full read of the server rather than a local merge. Fetches
// may overlap (a poller tick and a post-write refresh, say) and complete out
// of order over the network. Each fetch takes a monotonic sequence number
// when it starts; a result whose number is below the last applied one is
// dropped, so the latest write wins.
//
// # Concurrency
//
// Remote calls run outside the lock. The RWMutex only guards the swap of the
// snapshot and the sequence counters, and Snapshot returns defensive copies,
// so Bubble Tea commands, the poller and the render loop can share one Store.
package state
