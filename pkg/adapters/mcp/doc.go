// Package mcp exposes an Editor as a Model Context Protocol server, so an AI agent can
// build and fix a flow with the same operations a canvas uses.
package mcp
