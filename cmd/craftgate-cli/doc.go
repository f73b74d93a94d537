// Package main provides the entry point for craftgate-cli.
//
// craftgate-cli drives a craftgate gateway from the command line:
//
//   - login and saved connections
//   - player listing, server info and the game actions
//   - server console commands, one-shot or interactive
//
// Usage:
//
//	craftgate-cli login -p secret localhost:4567
//	craftgate-cli players -o json
//	craftgate-cli kick --reason afk Steve
//	craftgate-cli console --socket /var/run/craftgate/console.sock
package main
