// Package handler implements the craftgate HTTP API endpoints.
//
// Handlers decode requests, call the auth and game services, and map
// domain errors to HTTP responses. Routing and middleware live in the
// parent httpserver package.
package handler
