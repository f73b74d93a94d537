// Package repl provides the interactive console of craftgate-cli.
//
// Each input line goes to an Executor, normally the server console socket
// or the gateway command endpoint. History persists to
// ~/.craftgate/history and "complete <prefix>" lists matching commands.
package repl
