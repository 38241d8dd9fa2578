// Package api implements the HTTP handlers for authentication, course
// management, and summary job dispatch/status. Handlers translate between
// the JSON surface and the service layer; error mapping is centralized in
// errors.go so every handler fails the same way.
package api
