// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation on the X-API-Key header.
//   - rayid: a unique Request ID (RayID) for every incoming request, stored in
//     the context and echoed in the X-Ray-ID response header for tracing.
//
// Both are registered globally in the start command.
package middleware
