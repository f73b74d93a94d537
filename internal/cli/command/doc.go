// Package command defines the craftgate-cli commands on urfave/cli/v2.
//
//   - root.go: application, global flags and settings resolution
//   - connect.go: login, logout and saved connections
//   - game.go: players, server info and the game actions
//   - console.go: console socket and interactive mode
//   - system.go: health and version
//
// Commands resolve settings, call the gateway through the connection
// package and print with the output package.
package command
