// Package logger provides structured logging for cloudkit clients using zerolog.
//
// Client loggers are quiet by default (warn level, JSON on stderr) and never
// change the global zerolog level of the embedding process.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("iam")
//	log.Debug("call finished", logger.Fields(logger.FieldOperation, "ListUsers"))
package logger
