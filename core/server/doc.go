// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application itself; this package only describes
// where it listens, whether an API key protects it, and how long a graceful
// shutdown may take.
package server
