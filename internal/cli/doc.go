// Package cli parses command-line arguments, validates user input, and
// owns process-level concerns like exit codes. It translates flags into
// the app's internal configuration and never performs work itself.
package cli
