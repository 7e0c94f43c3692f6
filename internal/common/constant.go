// Package common contains shared constants and sentinel errors used across
// framekeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName carries the per-request correlation ID on both
// transports (gRPC metadata and HTTP header).
const RequestIDHeaderName = "x-request-id"
