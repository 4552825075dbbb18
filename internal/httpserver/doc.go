// Package httpserver wraps net/http's server with listen address validation and
// bounded graceful shutdown.
package httpserver
