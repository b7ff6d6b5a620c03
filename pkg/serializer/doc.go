// Package serializer converts flow documents to and from bytes.
//
// JSON is the canonical exchange format (indented by two spaces); YAML is
// accepted and produced with the same document shape. The structural rules
// live in the domain codec; this package owns the byte boundary, format
// detection and file handling.
package serializer
