// Package ui styles terminal status lines with lipgloss.
//
// A [Painter] is handed to the download engine so the CLI can color skip, download, and
// completion lines while tests use [Plain] for exact output.
package ui
