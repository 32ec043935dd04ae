// Package routes wires the HTTP surface of the autocomplete service.
//
// Layout:
// - api.go: /v1 routes plus probe endpoints
//
// Usage:
// routes.SetupAllRoutes(router, autocompleteController)
package routes
