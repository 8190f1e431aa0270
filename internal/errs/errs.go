// Package errs defines the error types returned to API clients.
//
// Every failure leaves the service as an *HTTPError so clients always
// receive the same JSON shape: a machine code, a message, the status and,
// for validation failures, the list of offending fields.
package errs
