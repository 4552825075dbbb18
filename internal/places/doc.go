// Package places is a small client for the Google Places web service. It covers
// the two calls the proxy needs: a text search that maps a free-text query to
// candidate places, and a place-details lookup for a single place id.
package places
