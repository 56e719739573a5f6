// Package confloader loads the smsauth client configuration.
//
// Values are layered with koanf; later layers win:
//
//  1. Defaults (LoadMap)
//  2. YAML configuration file
//  3. Environment variables (SMSAUTH_ prefix)
//  4. Command-line flags (LoadMap)
//
// Watcher reports edits of the configuration file so long-running
// sessions such as the interactive shell can re-apply settings.
package confloader
