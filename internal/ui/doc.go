// Package ui renders library data for the terminal with lipgloss styles.
//
// Nothing here is interactive: the command line prints the strings these helpers return.
package ui
