// Package commands wires the nasctl CLI: flag handling, session lifecycle,
// and output formatting around the client library.
package commands
