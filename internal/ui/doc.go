// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the local catalog:
//  1. [ListView] : Browse stored tracks, newest first
//  2. [DetailView] : Inspect one track with its artist and album
//  3. [ImportView] : Paste a Spotify URL, URI or id and import it
//  4. [ConfirmDeleteView] : Confirm removal of the selected track
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store and import calls run as [tea.Cmd] functions so the interface never blocks on I/O.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
