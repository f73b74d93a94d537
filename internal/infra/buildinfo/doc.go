// Package buildinfo exposes build-time version information.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/craftgate/internal/infra/buildinfo.Version=v1.0.0"
//
// The version is reported by /health and by craftgate-cli version.
package buildinfo
