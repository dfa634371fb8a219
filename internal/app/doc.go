// Package app provides the orchestration layer for the pixfeed application.
//
// # Overview
//
// This package wires together configuration, the PIX session, polling,
// state management, and the UI to create the complete pixfeed TUI
// experience. It serves as the composition root where all dependencies
// are initialized and connected.
//
// # Architecture
//
// The app package follows a simple initialization pattern:
//
//  1. Load PIX credentials from ~/.config/pix/config.toml and the PIX_* environment
//  2. Load user preferences (theme, default project)
//  3. Open a session and activate the requested project
//  4. Create shared state.Store for UI and poller coordination
//  5. Launch background poller goroutine that refreshes the project inbox
//  6. Start the TUI and block until user exits or context cancels
//
// # Components
//
//   - app.go: Main Run function and session/project bootstrap
//   - poller.go: Background goroutine that fetches the inbox periodically,
//     with exponential backoff while PIX is unreachable
package app
