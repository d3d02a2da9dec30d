// Package dashboard renders the presentation layer of the price dashboard:
// the EDA summary, the fixed set of nine chart artifacts, and the key
// metrics, each gated by its own display toggle.
//
// Everything here is a pure function from (*domain.PriceTable, Flags) to
// renderable artifacts. No function mutates the table, and the output is
// plain data decoupled from any UI toolkit: the frontend (or any other
// consumer) decides how to draw it.
package dashboard
