// Package http implements the HTTP transport layer of the branch sync
// server.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API. Cross-cutting concerns such as terminal authentication, request
// tracing, access logging, body integrity checks, and per-terminal rate
// limiting are handled in this package before requests are delegated to the
// service layer.
package http
