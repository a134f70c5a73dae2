// Package logger provides structured logging for testdatagen components.
//
// The logger wraps zap with a small, map-based API that every other package
// in this module consumes through its own narrow Logger interface. It
// integrates with the fx dependency injection framework and can correlate
// entries with OpenTelemetry traces.
//
// # Architecture
//
// The package is split the same way as every component of the module:
//
//   - configs.go: Config and the level constants
//   - setup.go: NewLoggerClient and NewNop
//   - utils.go: the logging methods and field conversion
//   - fx_module.go: the fx module and its lifecycle hook
//
// Consumers never depend on *Logger directly. Each package declares the
// subset it calls, for example
//
//	type Logger interface {
//		Debug(msg string, err error, fields ...map[string]interface{})
//		Warn(msg string, err error, fields ...map[string]interface{})
//	}
//
// and falls back to NewNop when none is supplied.
//
// Core Features:
//   - Structured logging with key-value maps
//   - Debug, Info, Warn, Error and Fatal levels
//   - Context-aware variants that add trace_id and span_id
//   - JSON (default) or console encoding
//
// # Direct Usage (Without FX)
//
//	import "github.com/Aleph-Alpha/testdatagen/v1/logger"
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         "info",
//		ServiceName:   "testdatagen",
//		EnableTracing: true,
//	})
//
//	log.Info("Function registered", nil, map[string]interface{}{
//		"function": "faker.name",
//	})
//
//	log.InfoWithContext(ctx, "Message transformed", nil, map[string]interface{}{
//		"schema": "acme.users.v1.User",
//	})
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config {
//			return logger.Config{Level: "info", ServiceName: "testdatagen"}
//		}),
//	)
//	app.Run()
//
// # Logging Levels
//
//   - debug: skipped fields, auto-mapping misses, per-call details
//   - info: lifecycle events, registrations, produced batches
//   - warning: recoverable problems, e.g. an optional mapping that failed
//     or a mapped field the schema does not have
//   - error: failed operations returned to the caller
//
// Level names are matched case-insensitively and "warn" is accepted for
// warning. Unknown names fall back to info.
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # Log level (debug, info, warning, error)
//	LOGGER_SERVICE_NAME=testdatagen # Value of the "service" field
//	LOGGER_ENABLE_TRACING=true      # Add trace/span IDs to *WithContext entries
//	LOGGER_ENCODING=console         # json (default) or console
//
// Through the config package the same keys are read from the logger
// section of config.yaml or from TESTDATA_LOGGER_* variables.
//
// # Tracing Integration
//
// With EnableTracing set, the *WithContext methods read the active span
// from the context and add:
//
//   - trace_id: the hex trace ID
//   - span_id: the hex span ID
//
// Entries written without a valid span context carry neither field.
//
// # Output
//
// Entries go to stderr so commands can write their results to stdout.
// Every entry carries the service name and the process ID.
//
// # Thread Safety
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
