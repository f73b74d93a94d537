// Package tlsroots manages TLS material.
//
//   - roots.go: trusted CA pools for outgoing connections (craftgate-cli
//     talking to a gateway with a private CA)
//   - watcher.go: the gateway's serving certificate, reloaded via fsnotify
//     when the key pair is rotated on disk
package tlsroots
