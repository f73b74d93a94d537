// Package config provides the craftgate-cli configuration.
//
// The file lives at ~/.craftgate/cli.yaml and holds saved connections
// (server address plus session token), the default output format and the
// console socket path. CRAFTGATE_SERVER, CRAFTGATE_TOKEN, CRAFTGATE_OUTPUT
// and CRAFTGATE_CONSOLE_SOCKET override the file; flags override both.
package config
