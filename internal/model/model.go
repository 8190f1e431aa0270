// Package model holds the domain records shared by the repository,
// service and handler layers, plus the request payloads the API accepts.
//
// Payloads carry their own binding (`json`, `param`) and validation
// (`validate`) tags and implement validation.Validatable.
package model
