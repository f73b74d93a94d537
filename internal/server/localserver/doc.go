// Package localserver provides the local console for craftgate-server.
//
// It listens on a Unix domain socket and speaks a line protocol: every
// line a client sends is one console command, answered by one line
//
//	OK <output>
//	ERR <message>
//
// Commands run on the host through the same dispatcher as the HTTP API.
// The socket is created with mode 0600; file system permissions are the
// only access control, so no bearer token is required.
//
// Built-in commands:
//
//   - help: list the available commands
//   - status: report host state (players, queue depth, ticks)
package localserver
