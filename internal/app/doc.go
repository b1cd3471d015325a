// Package app wires application dependencies for the CLI.
//
// It reads the TOML Config, builds the logger, the file-based budget store,
// the relay publisher and the high-level services, and exposes them via the
// App struct for commands to use.
package app
