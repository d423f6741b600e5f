// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI walks the import workflow:
//  1. [ConfirmView] : Confirm the import against the configured token
//  2. [ImportView] : Monitor real-time progress updates
//  3. [ResultView] : Display merge counts
//  4. [BrowseView] : Browse the merged collection
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the import engine, providing
// non-blocking status reporting while pages are fetched.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, tab, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
