// Package main hosts the clean-folder CLI entrypoint and command graph.
//
// The root command organizes one directory. Subcommands list recorded runs
// and scaffold or validate the configuration file. Configuration resolution
// and logger construction happen once per invocation in commandContext so the
// individual commands stay declarative.
package main
