// Package application provides application initialization and dependency wiring.
// It opens the configured solve history store and builds the handlers, routers
// and HTTP server, keeping the main package focused on CLI parsing and
// orchestration.
package application
