// Package handler is the HTTP layer between the router and the services.
//
// Handlers receive requests that the typed pipeline in base.go has already
// bound, sanitized and validated, call one service method, and return the
// result. Status translation is the only logic they own.
package handler
