// Package connection provides the craftgate-cli transports.
//
//   - http.go: JSON client for the gateway with bearer token auth
//   - socket.go: line client for the server console socket
//   - manager.go: saved connections backed by the CLI config file
package connection
