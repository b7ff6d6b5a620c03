// Package idgen produces the opaque identifiers given to nodes and edges.
// Callers should treat the returned values as opaque strings.
package idgen
