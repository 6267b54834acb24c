// Package ui provides the Bubble Tea terminal interface for shelf.
//
// # Architecture Overview
//
// Model is the single Bubble Tea model. Its Update method is the only place
// UI state changes, so the editor session and list cursor need no locking.
// Every call into state.Store runs inside a tea.Cmd and reports back through
// a message carrying the error and a fresh snapshot:
//
//   - refreshCmd: Store.Refresh, triggered on start and by r
//   - submitCmd: editor.Submission.Run, triggered by enter in the form
//   - deleteCmd: Store.Delete, triggered after the confirmation modal
//
// A one second tick re-reads the store snapshot so changes made by the
// background poller show up without user input.
//
// # Screen Layout
//
//   - Header: sync indicator, product count, total value, category count
//   - Command bar: key hints
//   - Error banner: the store's current error message, if any
//   - Content: product cards (or compact rows), the form, or a modal
//
// Help (h/?) and the shelf log (L) replace the whole screen until closed.
//
// # Key Bindings
//
//   - n/a: Add product
//   - enter/e: Edit selected product
//   - d/x: Delete selected product (y confirms)
//   - r: Refresh
//   - c: Toggle compact list
//   - T: Cycle theme
//   - q or Ctrl+C: Quit
package ui
