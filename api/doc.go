// Package api exposes the virtual teaching assistant over HTTP.
//
// The server accepts student questions on POST /api/ as JSON
// ({"question": "...", "image": "<base64>"}) and responds with the
// generated answer and citation links. GET /health reports liveness and
// store reachability, GET /stats reports corpus composition.
//
// Retrieval failures map to HTTP statuses: bad input is 400, an
// unreachable document store is 503, and a dependency timeout is 504.
package api
