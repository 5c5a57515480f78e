// Package logging provides a minimal logging interface and adapters for agenttree.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the scheduler, nodes, trees and engine use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - TreeLogger with component / tree / node context and tick helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelDebug, "text", false)
//	e := engine.New(func(o *engine.Options) { o.Logger = logger })
package logging
