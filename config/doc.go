// Package config provides configuration structures for buses and mediators.
//
// Configuration exists only during wiring. A composition root reads a file,
// merges it over defaults, and hands each section to the matching constructor
// (core.NewBus, mediator.New, mediator.NewPipeline, mediator.NewUnion). No
// configuration value is consulted again once a request is in flight.
//
// # Merge semantics
//
// Every configuration type supports Merge, so loaded values layer over defaults:
//
//	cfg := config.DefaultMediatorConfig("mediatorMin")
//	cfg.Merge(&loaded)
//
//   - Strings and enums: merged if the source is non-empty
//   - Plain booleans with false defaults: merged if the source is true
//   - Pointers: merged if the source is non-nil
//
// IgnoreFailures has a false default, so it is a plain bool.
//
// # File formats
//
// Load chooses a decoder from the file extension: .json, .yaml/.yml or .toml.
//
//	buses:
//	  http:
//	    fail_message: "HTTP request failed: none of the configured actors were able to handle it"
//	    observer: slog
//	mediators:
//	  http-number:
//	    bus: http
//	    strategy: number
//	    field: time
//	    type: min
//	    ignore_failures: true
package config
