// Package logger provides structured logging for the A-EMS services
// using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers. Request-scoped IDs (correlation, request,
// user) stored in a context are attached to every line via WithContext.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewFromEnv("auth-service").WithComponent("handler")
//	log.Info("login succeeded", logger.Fields("email", email))
package logger
