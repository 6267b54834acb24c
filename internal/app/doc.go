// Package app is the composition root for shelf.
//
// Run loads configuration, opens the log file, builds the catalog client and
// the state.Store, optionally starts the background poller and then hands
// control to the Bubble Tea UI until the user quits or ctx is cancelled.
//
//	Run()
//	  ├─> config.Load()          read ~/.config/shelf/config.toml
//	  ├─> logging.OpenFile()     the TUI owns the terminal, logs go to a file
//	  ├─> catalog.NewClient()    REST client for /api/products
//	  ├─> state.NewStore()       product snapshot + sync state
//	  ├─> StartPoller()          only when poll_interval > 0
//	  └─> ui.Run()               blocks
//
// The poller is periodic synchronization, not a retry mechanism: failed
// writes are never replayed. After consecutive failed fetches it backs off
// exponentially up to 30 seconds and returns to the base interval on the
// first success.
package app
