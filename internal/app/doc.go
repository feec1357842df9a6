// Package app is the composition root for photowall.
//
// # Startup
//
// Run performs, in order:
//
//  1. Load ~/.config/photowall/config.toml and apply flag overrides
//  2. Open the JSON log file (mirrored to stderr when headless)
//  3. Open the key-value store and restore the known set from it
//  4. Build the feed client, grid layout, scene and state store
//  5. Start the scene frame loop and the coordinator's poll loop
//  6. Run the TUI, or block until the context is cancelled when headless
//
// Headless mode is chosen with --headless or when stdout is not a terminal.
//
// # Data Flow
//
//	feed ──list──→ wall.Coordinator ──events──→ state.Store ──→ ui
//	                   │      ↑
//	          known set│      │images
//	                   ↓      │
//	               kvstore   feed
//	                   wall.Coordinator ──poses──→ scene ──frames──→ ui
//
// # Shutdown
//
// Cancelling the context stops the coordinator (interrupting any reveal or
// settle wait), stops the frame loop, quits the TUI and closes the store.
package app
