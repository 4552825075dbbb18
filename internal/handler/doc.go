// Package handler implements the public HTTP handler of the search proxy.
// It routes requests, validates the query, runs the text search and per-place
// detail fetches against the Places API, and shapes the merged result.
package handler
