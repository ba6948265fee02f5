// Package driving provides interfaces for application entrypoints
// (primary/inbound ports). The CLI and TUI adapters call core services
// through these interfaces.
package driving
