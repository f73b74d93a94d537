// Package output renders craftgate-cli results.
//
// Results print as an aligned table by default, or as JSON or YAML for
// scripting. Struct fields tagged `table:"wide"` only appear with --wide,
// and `table:"-"` hides a field from tables entirely.
package output
