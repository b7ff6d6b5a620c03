// Package http exposes an Editor over a JSON HTTP API, the surface a canvas front-end
// talks to. Changes are pushed to clients as Server-Sent Events on /events.
package http
