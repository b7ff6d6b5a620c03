// Package validator checks a flow snapshot for missing required fields and disconnected nodes.
//
// Validation is a pure function of the node and edge lists: it keeps no state,
// never fails, and returns the same ordered list for the same input. The result
// is data meant to be shown next to the offending node, not an error that
// blocks editing.
package validator
