// Package client talks to the framekeeper server over gRPC.
//
// GRPCClient keeps the access token returned by Login and attaches it to
// every call, unary and streaming alike. Server refusals come back as one of
// the sentinel errors ErrUnauthorized, ErrUnavailable or ErrRejected,
// wrapped together with the server's message.
package client
