// Package httpapi exposes the engine's Prometheus metrics and a small
// debug endpoint over HTTP. It is grounded on freyjadb's pkg/api/server.go:
// a chi router with the standard Logger/Recoverer middleware and a
// permissive CORS policy, mounting promhttp.Handler for scraping. The
// KV-store routes, API-key middleware, and Swagger documentation server
// have no analogue here and are not carried over.
package httpapi
