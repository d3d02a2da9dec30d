// Package services holds the application services sitting between the HTTP
// transport and the data layer.
//
// DatasetService owns uploaded price files: parsing, feature derivation,
// and the per-content memoization that keeps toggle changes from
// recomputing the table. HealthService reports liveness, readiness, and
// build metadata.
//
// Services return sentinel errors (see errors.go) that the transport layer
// maps to API error responses.
package services
