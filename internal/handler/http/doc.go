// Package http implements the HTTP transport of the reference document
// store.
//
// It exposes the document collection routes, the websocket change feed and
// the middleware chain (trace id, access logging, compression,
// authentication, panic recovery) that runs before requests reach the
// service layer.
package http
