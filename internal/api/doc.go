// Package api is the wire contract of the framekeeper.v1.CatalogService gRPC
// service: message types, the JSON codec they travel in, the service
// descriptor, and the server interface and client stub built on it.
//
// Both the server transport and the CLI client depend on this package only;
// neither side needs generated protobuf code.
package api
