// Package logger provides structured logging for the batodl project.
//
// Features:
//   - Multiple log levels (TRACE, DEBUG, INFO, WARN, ERROR)
//   - Component-based filtering
//   - Multiple output formats (text, JSON, color)
//   - Thread-safe operations
//   - Optional size-based file rotation
//
// Usage:
//
//	// Get a component logger
//	log := logger.WithComponent(logger.ComponentCipher)
//
//	// Log messages with different levels
//	log.Debug("pages resolved", map[string]interface{}{
//		"count": 24,
//	})
//
//	// Configure global logger
//	config := logger.DefaultConfig()
//	config.Level = logger.DEBUG
//	config.Format = logger.FormatJSON
//	logger.SetGlobalLogger(logger.New(config))
//
// Components:
//   - ComponentApp: CLI and top-level loader logs
//   - ComponentClient: HTTP client logs
//   - ComponentCatalog: listing and detail parsing logs
//   - ComponentCipher: page URL resolution logs
//   - ComponentEvaluator: password expression evaluation logs
//   - ComponentDownloader: image download logs
//
// Passwords, derived keys and IVs are never logged; call sites record
// lengths and counts instead.
package logger
