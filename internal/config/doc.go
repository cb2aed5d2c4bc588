// Package config provides configuration management for termshell.
//
// Configuration is loaded from config.yaml in a single directory. The default
// directory is ~/.config/termshell; commands accept --config-path to use
// another one. A missing file means the defaults from GetDefaultConfig, and
// keys missing from the file keep their default values.
//
// # Keys
//
//   - prompt: prompt template, a text/template with the sprig functions and
//     the fields .Machine and .Hostname (default "$ ")
//   - machineName: shown in front of "login: "
//   - lineSize: line buffer size in bytes, 8 to 1024 (default 64)
//   - historySize: lines kept for recall, 0 disables history (default 5)
//   - maxBytesPerLoop: input bytes handled per poll (default 32)
//   - pollInterval: time between polls (default 10ms)
//   - idleTimeout: disconnect idle clients, 0 disables (default 0)
//   - logLevel: debug, info, warn or error (default info)
//   - listen: telnet address for serve (default ":2323")
//   - login: enabled, username, passwordHash (bcrypt), uid and failureDelay
//     (default 3s)
//
// # Reloading
//
// Watcher follows config.yaml with fsnotify, falling back to polling where
// fsnotify is unavailable, and hands every successfully reloaded
// configuration to a callback. The server uses it to update the prompt of
// the running session.
package config
