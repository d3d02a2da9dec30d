// Package http implements the HTTP handlers for the dashboard API.
// Handlers stay thin: they parse and validate requests, delegate to the
// service layer, and render consistent JSON envelopes. Service errors are
// translated to structured API errors by a shared error handler.
//
// Request flow:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                              ↓
//	HTTP Response ← render.JSON ← Handler ←──────┘
package http
