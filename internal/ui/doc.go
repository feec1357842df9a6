// Package ui provides the Bubble Tea terminal interface for photowall.
//
// # Layout
//
//	┌──────────────────────────────────────────────┐
//	│ PHOTOWALL │ known │ queued │ shown │ failed  │  header
//	├──────────────────────────────────────────────┤
//	│                                              │
//	│   wall: grid tiles plus the item being       │  scene
//	│   revealed, rasterized from scene.Snapshot   │
//	│                                              │
//	├──────────────────────────────────────────────┤
//	│ 12:00:01 committed  Ada https://...          │  events
//	├──────────────────────────────────────────────┤
//	│ h/? Toggle help  e Quit                      │  footer
//	└──────────────────────────────────────────────┘
//
// # Data Flow
//
// A tick every Refresh interval reads state.Store and the scene in one
// command and delivers both as a frameMsg. The model never mutates either
// source; the scene is animated by its own frame loop.
//
// # Rasterizing
//
// The scene lives in viewport units with a center origin and y up. rasterize
// maps that onto the terminal cells available between header and event pane.
// Tiles at least 2x2 cells get a box and a centered caption; smaller ones are
// drawn as solid blocks.
//
// # Themes
//
// Nightfox, Kanagawa and Slate are built in. T cycles them and the choice is
// written to the key-value store under ThemeKey.
package ui
