// Package confloader loads craftgate configuration with koanf.
//
// Sources, lowest to highest priority:
//
//  1. Defaults (the values already present in the target struct)
//  2. YAML configuration file
//  3. CRAFTGATE_* environment variables
//
// Environment names map onto koanf keys of the target struct, so
// CRAFTGATE_SECURITY_MAX_REQUESTS_PER_MINUTE sets
// security.max_requests_per_minute. Lists are comma separated.
//
// Watcher reports changes to the configuration file through fsnotify.
package confloader
