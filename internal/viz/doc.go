// Package viz renders gbsim reports for the terminal.
//
// Styles are lipgloss definitions; lipgloss drops the colors when the
// output is not a terminal, so reports stay readable when piped.
package viz
