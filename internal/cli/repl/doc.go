// Package repl provides the interactive shell of smsauth-cli.
//
// The shell reads one line at a time, splits it into arguments with shell
// quoting rules and hands them to an Executor. It keeps a command history
// on disk, offers prefix completion through the "complete" builtin and can
// watch the configuration file to apply changes while it runs.
package repl
