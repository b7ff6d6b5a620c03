/*
Package observability provides tools for monitoring the flow editor.

It includes Prometheus metrics for mutations, imports and graph size, and a
change-event observer that writes an audit trail to a structured logger.
*/
package observability
