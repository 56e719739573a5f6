// Package command defines the smsauth-cli commands.
//
// Commands are built with urfave/cli/v2. Every command that touches the
// session works through a Runtime: the loaded configuration, the logger and
// one session Store wired to the backend and the token store. A single
// command builds and closes its own Runtime; the interactive shell builds one
// and shares it with every line it runs.
//
//   - root.go: application, global flags, runtime lookup
//   - runtime.go: wiring of the session store
//   - auth.go: login, register, logout, whoami
//   - account.go: profile update, password change
//   - config.go: config show, path, init
//   - system.go: version
//   - shell.go: interactive shell
package command
