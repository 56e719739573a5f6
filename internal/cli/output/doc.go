// Package output renders command results of smsauth-cli.
//
// Three formats are supported: an aligned key/value table for people,
// and JSON or YAML for scripts. Session data is rendered through
// SessionView so that the bearer token itself never reaches the output.
package output
