// Package config resolves publishing options.
//
// Options are layered, later layers winning:
//   - Built-in defaults
//   - The YAML config file (.ghpages.yml or --config)
//   - GHPAGES_* environment variables
//   - Command-line flags that were explicitly set
package config
