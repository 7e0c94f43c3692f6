// Package cli provides the interactive framekeeper command-line client.
//
// It wires configuration, the gRPC client and an interactive REPL that
// drives the server-side item form: set title, category and color, upload
// or delete the image, save the item and list the catalog. A background
// watcher pings the server and shows online/offline in the prompt.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
