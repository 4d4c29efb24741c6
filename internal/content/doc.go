// Package content provides an append-only builder for nested JSON
// documents with scoped start/end calls.
//
// Mapping documents are order-sensitive: two compilations of the same
// entity model must yield byte-identical output, so the builder writes
// members in insertion order and never reorders keys the way a map-based
// encoder would.
package content
